package infrastructure

import (
	"fmt"

	"gambler/wager-engine/domain/events"
)

// EventSubjectMapper maps domain events to NATS subjects
type EventSubjectMapper struct {
	prefix string
}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{prefix: "casino"}
}

var eventSubjects = map[events.EventType]string{
	events.EventTypeBalanceChange:     "ledger.balance_changed",
	events.EventTypeAccountCreated:    "accounts.created",
	events.EventTypeAccountState:      "accounts.state_changed",
	events.EventTypeWagerSettled:      "wagers.settled",
	events.EventTypeTransferCompleted: "transfers.completed",
	events.EventTypeRewardClaimed:     "rewards.claimed",
}

// MapEventToSubject converts a domain event to its NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	if subject, ok := eventSubjects[event.Type()]; ok {
		return m.prefix + "." + subject
	}
	return fmt.Sprintf("%s.unknown.%s", m.prefix, event.Type())
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{m.prefix + ".>"}
}
