package services

import (
	"context"
	"fmt"

	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/events"
	"gambler/wager-engine/domain/interfaces"
	"gambler/wager-engine/domain/utils"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// TransferService moves balance between two accounts
type TransferService struct {
	runner   *TransactionRunner
	accounts *AccountService
	ledger   *LedgerService
	enabled  bool
}

// NewTransferService creates a transfer service
func NewTransferService(runner *TransactionRunner, accounts *AccountService, ledger *LedgerService, enabled bool) *TransferService {
	return &TransferService{
		runner:   runner,
		accounts: accounts,
		ledger:   ledger,
		enabled:  enabled,
	}
}

// Transfer debits from and credits to by amount. Both ledger entries and both
// transfer entries are written in one transaction under both accounts' locks.
func (s *TransferService) Transfer(ctx context.Context, fromID, toID, amount int64) (*entities.TransferResult, error) {
	if err := s.check(fromID, toID, amount); err != nil {
		s.runner.Metrics().CommandRejected("transfer", err.Reason)
		return nil, err
	}

	unlock := s.runner.LockAccounts(fromID, toID)
	defer unlock()

	if _, err := s.accounts.ensure(ctx, fromID); err != nil {
		return nil, err
	}

	var result *entities.TransferResult
	err := s.runner.Transact(ctx, "transfer", func(uow interfaces.UnitOfWork) error {
		sender, err := load(ctx, uow, fromID)
		if err != nil {
			return err
		}
		recipient, err := uow.AccountRepository().GetByID(ctx, toID)
		if err != nil {
			return entities.NewPersistenceError("get account", err)
		}

		switch {
		case !sender.IsActive():
			return entities.NewValidationError("account_inactive", "Your account is not able to send transfers.")
		case recipient == nil:
			return entities.NewValidationError("unknown_recipient", "That user doesn't have a casino account.")
		case !recipient.IsActive():
			return entities.NewValidationError("recipient_inactive", "That account cannot receive transfers.")
		case sender.Balance < amount:
			return entities.NewValidationError("insufficient_balance",
				fmt.Sprintf("Insufficient balance: you have %s", utils.FormatShortNotation(sender.Balance)))
		}

		linkID := uuid.New()
		now := s.runner.Now()
		debit := &entities.TransferEntry{LinkID: linkID, AccountID: fromID, Amount: -amount, CreatedAt: now}
		credit := &entities.TransferEntry{LinkID: linkID, AccountID: toID, Amount: amount, CreatedAt: now}
		if err := uow.TransferRepository().CreatePair(ctx, debit, credit); err != nil {
			return entities.NewPersistenceError("create transfer", err)
		}

		if _, err := s.ledger.ApplyEffect(ctx, uow, sender, BalanceChange{
			Delta:     -amount,
			Source:    entities.EntrySourceTransferDebit,
			RelatedID: &debit.ID,
			Metadata:  map[string]any{"link_id": linkID.String(), "counterparty": toID},
		}); err != nil {
			return err
		}
		if _, err := s.ledger.ApplyEffect(ctx, uow, recipient, BalanceChange{
			Delta:     amount,
			Source:    entities.EntrySourceTransferCredit,
			RelatedID: &credit.ID,
			Metadata:  map[string]any{"link_id": linkID.String(), "counterparty": fromID},
		}); err != nil {
			return err
		}

		if err := uow.EventPublisher().Publish(events.TransferCompletedEvent{
			LinkID:      linkID.String(),
			FromAccount: fromID,
			ToAccount:   toID,
			Amount:      amount,
		}); err != nil {
			log.WithError(err).Error("Failed to publish transfer event")
		}

		result = &entities.TransferResult{
			LinkID:           linkID,
			Amount:           amount,
			SenderBalance:    sender.Balance,
			RecipientBalance: recipient.Balance,
		}
		return nil
	})
	if err != nil {
		if validationErr, ok := entities.IsValidationError(err); ok {
			s.runner.Metrics().CommandRejected("transfer", validationErr.Reason)
			return nil, err
		}
		log.WithFields(log.Fields{
			"from":   fromID,
			"to":     toID,
			"amount": amount,
		}).WithError(err).Error("Transfer failed")
		return nil, fmt.Errorf("failed to transfer: %w", err)
	}

	metrics := s.runner.Metrics()
	metrics.LedgerEntryRecorded(entities.EntrySourceTransferDebit)
	metrics.LedgerEntryRecorded(entities.EntrySourceTransferCredit)

	log.WithFields(log.Fields{
		"from":    fromID,
		"to":      toID,
		"amount":  amount,
		"link_id": result.LinkID,
	}).Info("Transfer completed")

	return result, nil
}

func (s *TransferService) check(fromID, toID, amount int64) *entities.ValidationError {
	switch {
	case !s.enabled:
		return entities.NewValidationError("transfers_disabled", "Transfers are currently disabled.")
	case fromID == toID:
		return entities.NewValidationError("self_transfer", "You can't transfer to yourself.")
	case amount <= 0:
		return entities.NewValidationError("invalid_amount", "Transfer amount must be positive.")
	}
	return nil
}
