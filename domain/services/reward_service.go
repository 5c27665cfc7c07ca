package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gambler/wager-engine/config"
	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/events"
	"gambler/wager-engine/domain/interfaces"
	"gambler/wager-engine/domain/utils"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const defaultCounterLabel = "counter"

// RewardService pays the cooldown-gated rewards: counters, the daily bonus,
// rakeback and lossback.
type RewardService struct {
	runner    *TransactionRunner
	accounts  *AccountService
	ledger    *LedgerService
	cooldowns *CooldownService

	dailyBonus       int64
	dailyResetHour   int
	counterCooldown  time.Duration
	counterReward    int64
	rakebackRate     decimal.Decimal
	rakebackCooldown time.Duration
	lossbackRate     decimal.Decimal
	lossbackCooldown time.Duration
}

// NewRewardService creates a reward service from the reward settings in cfg
func NewRewardService(runner *TransactionRunner, accounts *AccountService, ledger *LedgerService, cooldowns *CooldownService, cfg *config.Config) (*RewardService, error) {
	rakebackRate, err := cfg.RakebackRateDecimal()
	if err != nil {
		return nil, err
	}
	lossbackRate, err := cfg.LossbackRateDecimal()
	if err != nil {
		return nil, err
	}

	return &RewardService{
		runner:           runner,
		accounts:         accounts,
		ledger:           ledger,
		cooldowns:        cooldowns,
		dailyBonus:       cfg.DailyBonusAmount,
		dailyResetHour:   cfg.DailyResetHour,
		counterCooldown:  cfg.CounterCooldown,
		counterReward:    cfg.CounterReward,
		rakebackRate:     rakebackRate,
		rakebackCooldown: cfg.RakebackCooldown,
		lossbackRate:     lossbackRate,
		lossbackCooldown: cfg.LossbackCooldown,
	}, nil
}

// Counter acknowledges a counter command. The entry is only persisted, and the
// optional counter reward only paid, for callers above the lowest tier whose
// cooldown has elapsed.
func (s *RewardService) Counter(ctx context.Context, accountID int64, name string, level entities.PermissionLevel) (*entities.ClaimResult, error) {
	label := strings.ToLower(strings.TrimSpace(name))
	if label == "" {
		label = defaultCounterLabel
	}
	result := &entities.ClaimResult{Kind: entities.ClaimKindCounter}

	if !level.AboveLowest() {
		return result, nil
	}

	unlock := s.runner.LockAccount(accountID)
	defer unlock()

	if _, err := s.accounts.ensure(ctx, accountID); err != nil {
		return nil, err
	}

	err := s.runner.Transact(ctx, "counter", func(uow interfaces.UnitOfWork) error {
		*result = entities.ClaimResult{Kind: entities.ClaimKindCounter}

		account, err := load(ctx, uow, accountID)
		if err != nil {
			return err
		}
		result.NewBalance = account.Balance
		if !account.IsActive() {
			return nil
		}

		now := s.runner.Now()
		amount := s.counterReward
		recorded, next, err := s.cooldowns.Claim(ctx, uow, &entities.Claim{
			AccountID: accountID,
			Kind:      entities.ClaimKindCounter,
			Label:     label,
			Amount:    amount,
			ClaimedAt: now,
		}, s.counterCooldown)
		if err != nil {
			return err
		}
		result.NextClaim = next
		if !recorded {
			return nil
		}
		result.Recorded = true

		if amount > 0 {
			if err := s.pay(ctx, uow, account, entities.ClaimKindCounter, label, amount); err != nil {
				return err
			}
			result.Amount = amount
			result.NewBalance = account.Balance
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"accountID": accountID,
		"counter":   label,
		"level":     level,
		"recorded":  result.Recorded,
	}).Debug("Counter acknowledged")
	return result, nil
}

// DailyBonus pays the daily bonus once per period. Periods start at the reset
// hour UTC; the period in which the account was created is excluded.
func (s *RewardService) DailyBonus(ctx context.Context, accountID int64) (*entities.ClaimResult, error) {
	return s.claim(ctx, accountID, entities.ClaimKindDailyBonus, func(uow interfaces.UnitOfWork, account *entities.Account, now time.Time) (int64, error) {
		periodStart := utils.PeriodStart(now, s.dailyResetHour)
		nextReset := utils.NextReset(now, s.dailyResetHour)

		if !account.CreatedAt.Before(periodStart) {
			return 0, cooldownError("Your daily bonus becomes available after the next reset", nextReset, now)
		}

		latest, err := uow.ClaimRepository().GetLatest(ctx, accountID, entities.ClaimKindDailyBonus, "")
		if err != nil {
			return 0, entities.NewPersistenceError("get latest claim", err)
		}
		if latest != nil && !latest.ClaimedAt.Before(periodStart) {
			return 0, cooldownError("You already claimed today's bonus", nextReset, now)
		}
		return s.dailyBonus, nil
	}, func(now time.Time) time.Time {
		return utils.NextReset(now, s.dailyResetHour)
	})
}

// Rakeback pays a share of everything staked since the previous rakeback claim
func (s *RewardService) Rakeback(ctx context.Context, accountID int64) (*entities.ClaimResult, error) {
	return s.claim(ctx, accountID, entities.ClaimKindRakeback, func(uow interfaces.UnitOfWork, account *entities.Account, now time.Time) (int64, error) {
		since, err := s.windowStart(ctx, uow, accountID, entities.ClaimKindRakeback, s.rakebackCooldown, now)
		if err != nil {
			return 0, err
		}
		totals, err := uow.WagerRepository().TotalsSince(ctx, accountID, since)
		if err != nil {
			return 0, entities.NewPersistenceError("sum wagers", err)
		}
		return applyRate(totals.Staked, s.rakebackRate), nil
	}, func(now time.Time) time.Time {
		return now.Add(s.rakebackCooldown)
	})
}

// Lossback refunds a share of the net loss since the previous lossback claim
func (s *RewardService) Lossback(ctx context.Context, accountID int64) (*entities.ClaimResult, error) {
	return s.claim(ctx, accountID, entities.ClaimKindLossback, func(uow interfaces.UnitOfWork, account *entities.Account, now time.Time) (int64, error) {
		since, err := s.windowStart(ctx, uow, accountID, entities.ClaimKindLossback, s.lossbackCooldown, now)
		if err != nil {
			return 0, err
		}
		totals, err := uow.WagerRepository().TotalsSince(ctx, accountID, since)
		if err != nil {
			return 0, entities.NewPersistenceError("sum wagers", err)
		}
		return applyRate(totals.NetLoss(), s.lossbackRate), nil
	}, func(now time.Time) time.Time {
		return now.Add(s.lossbackCooldown)
	})
}

// windowStart enforces the cooldown and returns the time the accrual window
// began: the previous claim, or the beginning of time if there was none.
func (s *RewardService) windowStart(ctx context.Context, uow interfaces.UnitOfWork, accountID int64, kind entities.ClaimKind, window time.Duration, now time.Time) (time.Time, error) {
	ok, next, err := s.cooldowns.CanClaim(ctx, uow, accountID, kind, "", window, now)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return time.Time{}, cooldownError(fmt.Sprintf("You already claimed %s", strings.ReplaceAll(string(kind), "_", " ")), next, now)
	}

	latest, err := uow.ClaimRepository().GetLatest(ctx, accountID, kind, "")
	if err != nil {
		return time.Time{}, entities.NewPersistenceError("get latest claim", err)
	}
	if latest == nil {
		return time.Time{}, nil
	}
	return latest.ClaimedAt, nil
}

type rewardAmountFunc func(uow interfaces.UnitOfWork, account *entities.Account, now time.Time) (int64, error)

// claim runs the shared claim flow. A zero amount is accepted but writes
// neither a claim nor a ledger entry.
func (s *RewardService) claim(ctx context.Context, accountID int64, kind entities.ClaimKind, amountFor rewardAmountFunc, nextClaim func(time.Time) time.Time) (*entities.ClaimResult, error) {
	unlock := s.runner.LockAccount(accountID)
	defer unlock()

	if _, err := s.accounts.ensure(ctx, accountID); err != nil {
		return nil, err
	}

	var result *entities.ClaimResult
	err := s.runner.Transact(ctx, string(kind), func(uow interfaces.UnitOfWork) error {
		account, err := load(ctx, uow, accountID)
		if err != nil {
			return err
		}
		if !account.IsActive() {
			return entities.NewValidationError("account_inactive", "Your account is not able to claim rewards.")
		}

		now := s.runner.Now()
		amount, err := amountFor(uow, account, now)
		if err != nil {
			return err
		}

		result = &entities.ClaimResult{Kind: kind, NewBalance: account.Balance}
		if amount <= 0 {
			return nil
		}

		if err := uow.ClaimRepository().Create(ctx, &entities.Claim{
			AccountID: accountID,
			Kind:      kind,
			Amount:    amount,
			ClaimedAt: now,
		}); err != nil {
			return entities.NewPersistenceError("create claim", err)
		}
		if err := s.pay(ctx, uow, account, kind, "", amount); err != nil {
			return err
		}

		result.Amount = amount
		result.Recorded = true
		result.NewBalance = account.Balance
		result.NextClaim = nextClaim(now)
		return nil
	})
	if err != nil {
		if validationErr, ok := entities.IsValidationError(err); ok {
			s.runner.Metrics().CommandRejected(string(kind), validationErr.Reason)
		}
		return nil, err
	}

	if result.Recorded {
		s.runner.Metrics().LedgerEntryRecorded(kind.EntrySource())
		log.WithFields(log.Fields{
			"accountID": accountID,
			"kind":      kind,
			"amount":    result.Amount,
		}).Info("Reward claimed")
	}
	return result, nil
}

func (s *RewardService) pay(ctx context.Context, uow interfaces.UnitOfWork, account *entities.Account, kind entities.ClaimKind, label string, amount int64) error {
	metadata := map[string]any{"kind": string(kind)}
	if label != "" {
		metadata["label"] = label
	}
	if _, err := s.ledger.ApplyEffect(ctx, uow, account, BalanceChange{
		Delta:    amount,
		Source:   kind.EntrySource(),
		Metadata: metadata,
	}); err != nil {
		return err
	}

	if err := uow.EventPublisher().Publish(events.RewardClaimedEvent{
		AccountID: account.ID,
		Kind:      kind,
		Label:     label,
		Amount:    amount,
	}); err != nil {
		log.WithError(err).Error("Failed to publish reward claimed event")
	}
	return nil
}

// applyRate returns floor(base * rate) for non-negative base
func applyRate(base int64, rate decimal.Decimal) int64 {
	if base <= 0 {
		return 0
	}
	return decimal.NewFromInt(base).Mul(rate).Floor().IntPart()
}

func cooldownError(prefix string, next, now time.Time) error {
	return entities.NewValidationError("cooldown_active",
		fmt.Sprintf("%s. Try again in %s.", prefix, formatWait(next.Sub(now))))
}

// formatWait renders a duration as "3h 12m" or "45s"
func formatWait(d time.Duration) string {
	if d < time.Minute {
		if d < time.Second {
			d = time.Second
		}
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours >= 24 {
		return fmt.Sprintf("%dd %dh", hours/24, hours%24)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
