package config

import (
	"fmt"

	"gambler/wager-engine/domain/entities"

	"github.com/shopspring/decimal"
)

// MinWagerFloor is the smallest allowed MIN_WAGER
const MinWagerFloor = 100

// Validate checks the settings that the engines and reward rules depend on.
// Any failure is a ConfigurationError and is fatal at startup.
func (c *Config) Validate() error {
	if err := validateEdge("HOUSE_EDGE", c.HouseEdge); err != nil {
		return err
	}
	for game, edge := range c.GameHouseEdges {
		if _, err := entities.ParseGame(game); err != nil {
			return entities.NewConfigurationError("GAME_HOUSE_EDGES", fmt.Sprintf("unknown game %q", game))
		}
		if err := validateEdge("GAME_HOUSE_EDGES["+game+"]", edge); err != nil {
			return err
		}
	}
	for _, game := range c.DisabledGames {
		if _, err := entities.ParseGame(game); err != nil {
			return entities.NewConfigurationError("DISABLED_GAMES", fmt.Sprintf("unknown game %q", game))
		}
	}

	// Payouts are floored to whole units, so each wager can lose up to one unit
	// to rounding. At 100 that stays under one point of return.
	if c.MinWager < MinWagerFloor {
		return entities.NewConfigurationError("MIN_WAGER", fmt.Sprintf("must be at least %d", MinWagerFloor))
	}
	if c.StartingBalance < 0 {
		return entities.NewConfigurationError("STARTING_BALANCE", "must not be negative")
	}
	if c.DailyBonusAmount < 0 || c.CounterReward < 0 {
		return entities.NewConfigurationError("DAILY_BONUS_AMOUNT/COUNTER_REWARD", "rewards must not be negative")
	}
	if c.DailyResetHour < 0 || c.DailyResetHour > 23 {
		return entities.NewConfigurationError("DAILY_RESET_HOUR", "must be between 0 and 23")
	}
	if c.MaxLeaderboardSize <= 0 {
		return entities.NewConfigurationError("MAX_LEADERBOARD_SIZE", "must be positive")
	}
	if c.RakebackCooldown <= 0 || c.LossbackCooldown <= 0 || c.CounterCooldown <= 0 {
		return entities.NewConfigurationError("COOLDOWN", "cooldown windows must be positive")
	}

	if _, err := c.RakebackRateDecimal(); err != nil {
		return err
	}
	if _, err := c.LossbackRateDecimal(); err != nil {
		return err
	}

	return nil
}

// RakebackRateDecimal parses the rakeback rate
func (c *Config) RakebackRateDecimal() (decimal.Decimal, error) {
	return parseRate("RAKEBACK_RATE", c.RakebackRate)
}

// LossbackRateDecimal parses the lossback rate
func (c *Config) LossbackRateDecimal() (decimal.Decimal, error) {
	return parseRate("LOSSBACK_RATE", c.LossbackRate)
}

func parseRate(field, value string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, entities.NewConfigurationError(field, fmt.Sprintf("invalid decimal %q", value))
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, entities.NewConfigurationError(field, "must be between 0 and 1")
	}
	return rate, nil
}

func validateEdge(field string, edge float64) error {
	if edge <= 0 || edge >= 1 {
		return entities.NewConfigurationError(field, fmt.Sprintf("house edge %.4f must be in (0, 1)", edge))
	}
	return nil
}
