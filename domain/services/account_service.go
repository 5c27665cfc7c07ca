package services

import (
	"context"
	"fmt"

	"gambler/wager-engine/domain/draw"
	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/events"
	"gambler/wager-engine/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// AccountService creates accounts on first interaction and manages their lifecycle
type AccountService struct {
	runner          *TransactionRunner
	ledger          *LedgerService
	startingBalance int64
}

// NewAccountService creates an account service
func NewAccountService(runner *TransactionRunner, ledger *LedgerService, startingBalance int64) *AccountService {
	return &AccountService{
		runner:          runner,
		ledger:          ledger,
		startingBalance: startingBalance,
	}
}

// GetAccount returns the account, creating it with the starting balance on first use
func (s *AccountService) GetAccount(ctx context.Context, accountID int64) (*entities.Account, error) {
	unlock := s.runner.LockAccount(accountID)
	defer unlock()

	return s.ensure(ctx, accountID)
}

// ensure creates the account in its own transaction if it does not exist yet.
// The caller must hold the account's lock.
func (s *AccountService) ensure(ctx context.Context, accountID int64) (*entities.Account, error) {
	var account *entities.Account
	err := s.runner.Transact(ctx, "create_account", func(uow interfaces.UnitOfWork) error {
		existing, err := uow.AccountRepository().GetByID(ctx, accountID)
		if err != nil {
			return entities.NewPersistenceError("get account", err)
		}
		if existing != nil {
			account = existing
			return nil
		}

		created, err := s.create(ctx, uow, accountID)
		if err != nil {
			return err
		}
		account = created
		return nil
	})
	return account, err
}

func (s *AccountService) create(ctx context.Context, uow interfaces.UnitOfWork, accountID int64) (*entities.Account, error) {
	seed, err := draw.NewSeed()
	if err != nil {
		return nil, fmt.Errorf("failed to seed draw stream: %w", err)
	}

	now := s.runner.Now()
	account := &entities.Account{
		ID:        accountID,
		State:     entities.AccountStateActive,
		DrawSeed:  seed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uow.AccountRepository().Create(ctx, account); err != nil {
		return nil, entities.NewPersistenceError("create account", err)
	}

	if s.startingBalance > 0 {
		if _, err := s.ledger.ApplyEffect(ctx, uow, account, BalanceChange{
			Delta:  s.startingBalance,
			Source: entities.EntrySourceInitial,
		}); err != nil {
			return nil, err
		}
	}

	log.WithFields(log.Fields{
		"accountID":       accountID,
		"startingBalance": s.startingBalance,
	}).Info("Created casino account")
	return account, nil
}

// load reads an account that ensure has already created
func load(ctx context.Context, uow interfaces.UnitOfWork, accountID int64) (*entities.Account, error) {
	account, err := uow.AccountRepository().GetByID(ctx, accountID)
	if err != nil {
		return nil, entities.NewPersistenceError("get account", err)
	}
	if account == nil {
		return nil, entities.NewPersistenceError("get account", fmt.Errorf("account %d not found", accountID))
	}
	return account, nil
}

// Abandon permanently closes an account. It requires explicit confirmation.
func (s *AccountService) Abandon(ctx context.Context, accountID int64, confirmed bool) error {
	if !confirmed {
		return entities.NewValidationError("confirmation_required",
			"Abandoning your account is permanent. Repeat the command with confirmation to proceed.")
	}
	return s.transition(ctx, accountID, entities.AccountStateAbandoned)
}

// SetExcluded places an account into or out of self-exclusion
func (s *AccountService) SetExcluded(ctx context.Context, accountID int64, excluded bool) error {
	target := entities.AccountStateActive
	if excluded {
		target = entities.AccountStateExcluded
	}
	return s.transition(ctx, accountID, target)
}

func (s *AccountService) transition(ctx context.Context, accountID int64, target entities.AccountState) error {
	unlock := s.runner.LockAccount(accountID)
	defer unlock()

	return s.runner.Transact(ctx, "account_state", func(uow interfaces.UnitOfWork) error {
		account, err := uow.AccountRepository().GetByID(ctx, accountID)
		if err != nil {
			return entities.NewPersistenceError("get account", err)
		}
		if account == nil {
			return entities.NewValidationError("unknown_account", "You don't have a casino account yet.")
		}
		if !account.CanTransitionTo(target) {
			return entities.NewValidationError("invalid_state",
				fmt.Sprintf("Your account is %s and cannot become %s.", account.State, target))
		}

		if err := uow.AccountRepository().UpdateState(ctx, accountID, target); err != nil {
			return entities.NewPersistenceError("update account state", err)
		}
		if err := uow.EventPublisher().Publish(events.AccountStateChangedEvent{
			AccountID: accountID,
			From:      account.State,
			To:        target,
		}); err != nil {
			log.WithError(err).Error("Failed to publish account state event")
		}

		log.WithFields(log.Fields{
			"accountID": accountID,
			"from":      account.State,
			"to":        target,
		}).Info("Account state changed")
		return nil
	})
}

// Reseed replaces the account's draw seed and restarts its nonce at zero
func (s *AccountService) Reseed(ctx context.Context, accountID int64) error {
	unlock := s.runner.LockAccount(accountID)
	defer unlock()

	seed, err := draw.NewSeed()
	if err != nil {
		return fmt.Errorf("failed to seed draw stream: %w", err)
	}

	return s.runner.Transact(ctx, "reseed", func(uow interfaces.UnitOfWork) error {
		if _, err := load(ctx, uow, accountID); err != nil {
			return err
		}
		if err := uow.AccountRepository().UpdateSeed(ctx, accountID, seed); err != nil {
			return entities.NewPersistenceError("update seed", err)
		}
		log.WithField("accountID", accountID).Info("Draw stream reseeded")
		return nil
	})
}
