package utils

import (
	"time"
)

// PeriodStart returns when the daily period containing now started.
// Periods roll over at resetHour UTC.
func PeriodStart(now time.Time, resetHour int) time.Time {
	now = now.UTC()
	periodStart := time.Date(now.Year(), now.Month(), now.Day(), resetHour, 0, 0, 0, time.UTC)

	// Before today's reset we are still in yesterday's period
	if now.Before(periodStart) {
		periodStart = periodStart.AddDate(0, 0, -1)
	}

	return periodStart
}

// NextReset returns the start of the period after the one containing now
func NextReset(now time.Time, resetHour int) time.Time {
	return PeriodStart(now, resetHour).AddDate(0, 0, 1)
}

// GetCurrentPeriodStart calculates when the current daily period started
func GetCurrentPeriodStart(resetHour int) time.Time {
	return PeriodStart(time.Now(), resetHour)
}
