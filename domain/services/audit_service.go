package services

import (
	"context"

	"gambler/wager-engine/domain/draw"
	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/games"
	"gambler/wager-engine/domain/interfaces"
)

// WagerReplay compares a stored wager with a fresh evaluation of its draws
type WagerReplay struct {
	WagerID        int64
	RecordedStake  int64
	RecordedPayout int64
	ReplayedStake  int64
	ReplayedPayout int64
	Description    string
}

// Matches returns true if the replay reproduced the stored result
func (r WagerReplay) Matches() bool {
	return r.RecordedStake == r.ReplayedStake && r.RecordedPayout == r.ReplayedPayout
}

// AuditService re-evaluates stored wagers from their draw seed and nonce
type AuditService struct {
	runner   *TransactionRunner
	registry *games.Registry
}

// NewAuditService creates an audit service
func NewAuditService(runner *TransactionRunner, registry *games.Registry) *AuditService {
	return &AuditService{runner: runner, registry: registry}
}

// ReplayWager reruns the engine for a stored wager. A mismatch means the
// engine configuration changed or the record was altered.
func (s *AuditService) ReplayWager(ctx context.Context, wagerID int64) (*WagerReplay, error) {
	var wager *entities.Wager
	err := s.runner.Read(ctx, func(uow interfaces.UnitOfWork) error {
		var err error
		wager, err = uow.WagerRepository().GetByID(ctx, wagerID)
		if err != nil {
			return entities.NewPersistenceError("get wager", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if wager == nil {
		return nil, entities.NewValidationError("unknown_wager", "No wager with that id.")
	}

	engine, ok := s.registry.Get(wager.Game)
	if !ok {
		return nil, entities.NewValidationError("unknown_game", "That wager's game is no longer available.")
	}
	outcome, err := engine.Evaluate(wager.Amount, wager.Params, draw.NewStream(wager.DrawSeed, wager.DrawNonce))
	if err != nil {
		return nil, err
	}

	return &WagerReplay{
		WagerID:        wager.ID,
		RecordedStake:  wager.Stake,
		RecordedPayout: wager.Payout,
		ReplayedStake:  outcome.Stake,
		ReplayedPayout: outcome.Payout,
		Description:    outcome.Description,
	}, nil
}
