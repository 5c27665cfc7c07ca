package services

import (
	"fmt"

	"gambler/wager-engine/domain/entities"
	"gambler/wager-engine/domain/games"
	"gambler/wager-engine/domain/utils"
)

// FeatureFlags reports which games are switched on
type FeatureFlags interface {
	GameEnabled(game string) bool
}

// WagerValidator rejects requests before anything is drawn or written
type WagerValidator struct {
	registry *games.Registry
	features FeatureFlags
	minWager int64
}

// NewWagerValidator creates a validator. Amounts below minWager are rejected.
func NewWagerValidator(registry *games.Registry, features FeatureFlags, minWager int64) *WagerValidator {
	return &WagerValidator{registry: registry, features: features, minWager: minWager}
}

// Validate checks a request against the account snapshot and returns the
// engine with the request's parameters after defaults are applied.
func (v *WagerValidator) Validate(account *entities.Account, req entities.WagerRequest) (games.Engine, entities.GameParams, error) {
	if account == nil || !account.IsActive() {
		return nil, req.Params, entities.NewValidationError("account_inactive",
			"Your account is not able to place wagers.")
	}

	engine, ok := v.registry.Get(req.Game)
	if !ok {
		return nil, req.Params, entities.NewValidationError("unknown_game",
			fmt.Sprintf("Unknown game %q.", req.Game))
	}
	if v.features != nil && !v.features.GameEnabled(string(req.Game)) {
		return nil, req.Params, entities.NewValidationError("game_disabled",
			fmt.Sprintf("%s is currently disabled.", req.Game))
	}

	if req.Amount <= 0 {
		return nil, req.Params, entities.NewValidationError("invalid_amount",
			"Wager amount must be positive.")
	}

	params, err := engine.Normalize(req.Params)
	if err != nil {
		return nil, req.Params, err
	}

	required := req.Amount * engine.MaxStakeFactor()
	if required/engine.MaxStakeFactor() != req.Amount || required > account.Balance {
		msg := fmt.Sprintf("Insufficient balance: you have %s", utils.FormatShortNotation(account.Balance))
		if engine.MaxStakeFactor() > 1 {
			msg = fmt.Sprintf("%s needs %dx your wager available: you have %s",
				req.Game, engine.MaxStakeFactor(), utils.FormatShortNotation(account.Balance))
		}
		return nil, req.Params, entities.NewValidationError("insufficient_balance", msg)
	}

	if req.Amount < v.minWager {
		return nil, req.Params, entities.NewValidationError("below_minimum",
			fmt.Sprintf("The minimum wager is %s.", utils.FormatShortNotation(v.minWager)))
	}

	return engine, params, nil
}
