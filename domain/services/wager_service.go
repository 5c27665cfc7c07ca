package services

import (
	"context"
	"fmt"
	"time"

	"gambler/wager-engine/domain/draw"
	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/events"
	"gambler/wager-engine/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// WagerService resolves bets. The account's lock is held from validation
// through commit so the draw stream and balance cannot interleave.
type WagerService struct {
	runner    *TransactionRunner
	accounts  *AccountService
	ledger    *LedgerService
	validator *WagerValidator
}

// NewWagerService creates a wager service
func NewWagerService(runner *TransactionRunner, accounts *AccountService, ledger *LedgerService, validator *WagerValidator) *WagerService {
	return &WagerService{
		runner:    runner,
		accounts:  accounts,
		ledger:    ledger,
		validator: validator,
	}
}

// PlaceWager validates, draws, evaluates and persists one wager atomically.
// A rejected wager writes nothing.
func (s *WagerService) PlaceWager(ctx context.Context, req entities.WagerRequest) (*entities.WagerResult, error) {
	start := time.Now()

	unlock := s.runner.LockAccount(req.AccountID)
	defer unlock()

	if _, err := s.accounts.ensure(ctx, req.AccountID); err != nil {
		return nil, err
	}

	var result *entities.WagerResult
	err := s.runner.Transact(ctx, "wager", func(uow interfaces.UnitOfWork) error {
		account, err := load(ctx, uow, req.AccountID)
		if err != nil {
			return err
		}

		engine, params, err := s.validator.Validate(account, req)
		if err != nil {
			return err
		}

		stream := draw.NewStream(account.DrawSeed, account.DrawNonce)
		outcome, err := engine.Evaluate(req.Amount, params, stream)
		if err != nil {
			return err
		}
		if outcome.Stake > account.Balance {
			return entities.NewValidationError("insufficient_balance", "Insufficient balance for this wager.")
		}

		wager := &entities.Wager{
			AccountID:  account.ID,
			Game:       req.Game,
			Amount:     req.Amount,
			Stake:      outcome.Stake,
			Payout:     outcome.Payout,
			Effect:     outcome.Effect,
			Multiplier: outcome.Multiplier,
			Params:     params,
			Outcome:    outcome.Details,
			DrawSeed:   account.DrawSeed,
			DrawNonce:  account.DrawNonce,
			CreatedAt:  s.runner.Now(),
		}
		if err := uow.WagerRepository().Create(ctx, wager); err != nil {
			return entities.NewPersistenceError("create wager", err)
		}

		if _, err := s.ledger.ApplyEffect(ctx, uow, account, BalanceChange{
			Delta:        outcome.Effect,
			Source:       entities.EntrySourceWager,
			RelatedID:    &wager.ID,
			Metadata:     map[string]any{"game": string(req.Game), "amount": req.Amount},
			WageredDelta: outcome.Stake,
			AdvanceNonce: true,
		}); err != nil {
			return err
		}

		if err := uow.EventPublisher().Publish(events.WagerSettledEvent{
			WagerID:    wager.ID,
			AccountID:  wager.AccountID,
			Game:       wager.Game,
			Amount:     wager.Amount,
			Stake:      wager.Stake,
			Payout:     wager.Payout,
			Multiplier: wager.Multiplier,
		}); err != nil {
			log.WithError(err).Error("Failed to publish wager settled event")
		}

		result = &entities.WagerResult{
			Wager:       wager,
			Description: outcome.Description,
			NewBalance:  account.Balance,
		}
		return nil
	})
	if err != nil {
		if validationErr, ok := entities.IsValidationError(err); ok {
			s.runner.Metrics().CommandRejected("wager", validationErr.Reason)
			return nil, err
		}
		log.WithFields(log.Fields{
			"accountID": req.AccountID,
			"game":      req.Game,
			"amount":    req.Amount,
		}).WithError(err).Error("Wager failed")
		return nil, fmt.Errorf("failed to place wager: %w", err)
	}

	metrics := s.runner.Metrics()
	metrics.WagerSettled(result.Wager.Game, result.Wager.Stake, result.Wager.Payout, time.Since(start))
	metrics.LedgerEntryRecorded(entities.EntrySourceWager)

	log.WithFields(log.Fields{
		"accountID":  req.AccountID,
		"game":       req.Game,
		"stake":      result.Wager.Stake,
		"payout":     result.Wager.Payout,
		"newBalance": result.NewBalance,
	}).Debug("Wager settled")

	return result, nil
}
