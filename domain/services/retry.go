package services

import (
	"context"
	"errors"
	"time"

	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/interfaces"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

const conflictRetryDelay = 5 * time.Millisecond

// retryOnConflict runs operation and repeats it once if the balance changed
// underneath it. A second conflict is reported to the caller as a rejection.
func retryOnConflict(ctx context.Context, name string, metrics interfaces.MetricsRecorder, operation func() error) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(conflictRetryDelay), 1),
		ctx,
	)

	err := backoff.RetryNotify(func() error {
		err := operation()
		if err == nil || errors.Is(err, entities.ErrConcurrencyConflict) {
			return err
		}
		return backoff.Permanent(err)
	}, policy, func(err error, wait time.Duration) {
		metrics.ConflictRetried(name)
		log.WithFields(log.Fields{
			"operation": name,
			"wait":      wait,
		}).Warn("Balance changed concurrently, retrying")
	})

	if errors.Is(err, entities.ErrConcurrencyConflict) {
		return entities.NewValidationError("concurrent_update",
			"Your balance changed while this was processing. Please try again.")
	}
	return err
}
