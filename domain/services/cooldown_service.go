package services

import (
	"context"
	"time"

	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/interfaces"
)

// CooldownService gates claims to one per window. Callers run it inside the
// account's lock and transaction so a check and its insert cannot be split.
type CooldownService struct{}

// NewCooldownService creates a cooldown service
func NewCooldownService() *CooldownService {
	return &CooldownService{}
}

// CanClaim reports whether no claim of kind/label exists within [now-window, now].
// When it returns false, next is the first instant a claim is allowed again.
func (s *CooldownService) CanClaim(ctx context.Context, uow interfaces.UnitOfWork, accountID int64, kind entities.ClaimKind, label string, window time.Duration, now time.Time) (bool, time.Time, error) {
	latest, err := uow.ClaimRepository().GetLatest(ctx, accountID, kind, label)
	if err != nil {
		return false, time.Time{}, entities.NewPersistenceError("get latest claim", err)
	}
	if latest == nil {
		return true, now, nil
	}

	next := latest.ClaimedAt.Add(window)
	if now.After(next) {
		return true, now, nil
	}
	return false, next, nil
}

// Claim records a claim only if CanClaim holds. It returns false without
// writing when the window is still open.
func (s *CooldownService) Claim(ctx context.Context, uow interfaces.UnitOfWork, claim *entities.Claim, window time.Duration) (bool, time.Time, error) {
	ok, next, err := s.CanClaim(ctx, uow, claim.AccountID, claim.Kind, claim.Label, window, claim.ClaimedAt)
	if err != nil || !ok {
		return false, next, err
	}

	if err := uow.ClaimRepository().Create(ctx, claim); err != nil {
		return false, next, entities.NewPersistenceError("create claim", err)
	}
	return true, claim.ClaimedAt.Add(window), nil
}
