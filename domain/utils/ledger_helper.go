package utils

import (
	"context"
	"fmt"

	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/events"
	"gambler/wager-engine/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// RecordLedgerEntry appends a ledger entry and emits the matching events.
// This is the single entry point for ledger writes in the system.
func RecordLedgerEntry(ctx context.Context, ledgerRepo interfaces.LedgerRepository, eventPublisher interfaces.EventPublisher, entry *entities.LedgerEntry) error {
	if !entry.IsConsistent() {
		return fmt.Errorf("inconsistent ledger entry for account %d: %d + %d != %d",
			entry.AccountID, entry.BalanceBefore, entry.Effect, entry.BalanceAfter)
	}

	if err := ledgerRepo.Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}

	event := events.BalanceChangeEvent{
		AccountID:  entry.AccountID,
		OldBalance: entry.BalanceBefore,
		NewBalance: entry.BalanceAfter,
		Source:     entry.Source,
		Effect:     entry.Effect,
		EntryID:    entry.ID,
	}
	log.WithFields(log.Fields{
		"accountID":  event.AccountID,
		"oldBalance": event.OldBalance,
		"newBalance": event.NewBalance,
		"source":     event.Source,
		"effect":     event.Effect,
	}).Debug("Publishing BalanceChangeEvent")
	if err := eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}

	if entry.Source == entities.EntrySourceInitial {
		if err := eventPublisher.Publish(events.AccountCreatedEvent{
			AccountID:      entry.AccountID,
			InitialBalance: entry.BalanceAfter,
		}); err != nil {
			log.WithError(err).Error("Failed to publish account created event")
		}
	}

	return nil
}
