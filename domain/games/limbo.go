package games

import (
	"fmt"
	"math"

	"gambler/wager-engine/domain/entities"
)

const (
	limboMinMultiplier     = 1.01
	limboMaxMultiplier     = 1_000_000.0
	limboDefaultMultiplier = 2.0
)

// Limbo draws a crash point k/(1-u) and pays the requested multiplier if the
// crash point reaches it. P(crash >= m) = k/m, so the return is k for every m.
type Limbo struct {
	houseEdge float64
}

// NewLimbo creates a limbo engine
func NewLimbo(houseEdge float64) (*Limbo, error) {
	if err := checkHouseEdge(entities.GameLimbo, houseEdge); err != nil {
		return nil, err
	}
	return &Limbo{houseEdge: houseEdge}, nil
}

func (l *Limbo) Game() entities.Game   { return entities.GameLimbo }
func (l *Limbo) HouseEdge() float64    { return l.houseEdge }
func (l *Limbo) MaxStakeFactor() int64 { return 1 }

func (l *Limbo) Normalize(params entities.GameParams) (entities.GameParams, error) {
	if params.Multiplier == 0 {
		params.Multiplier = limboDefaultMultiplier
	}
	if !isFinite(params.Multiplier) {
		return params, invalidParams("Limbo multiplier must be a number")
	}
	cents := math.Round(params.Multiplier * 100)
	if cents < limboMinMultiplier*100 || cents > limboMaxMultiplier*100 {
		return params, invalidParams("Limbo multiplier must be between %.2fx and %.0fx", limboMinMultiplier, limboMaxMultiplier)
	}
	params.Multiplier = cents / 100
	return params, nil
}

func (l *Limbo) Evaluate(amount int64, params entities.GameParams, draws Draws) (*Outcome, error) {
	params, err := l.Normalize(params)
	if err != nil {
		return nil, err
	}

	u := draws.Float64()
	crashCents := floorMoney(100 * (1 - l.houseEdge) / (1 - u))
	crashCents = math.Min(crashCents, limboMaxMultiplier*100)
	requestedCents := math.Round(params.Multiplier * 100)
	won := crashCents >= requestedCents

	multiplier := 0.0
	if won {
		multiplier = params.Multiplier
	}
	crash := crashCents / 100
	description := fmt.Sprintf("Crashed at %.2fx (target %.2fx)", crash, params.Multiplier)
	return settle(amount, multiplier, 1, description, map[string]any{
		"crash":  crash,
		"target": params.Multiplier,
		"won":    won,
	}), nil
}

func (l *Limbo) Distribution(params entities.GameParams) ([]Bucket, error) {
	params, err := l.Normalize(params)
	if err != nil {
		return nil, err
	}
	p := (1 - l.houseEdge) / params.Multiplier
	return []Bucket{
		{Label: "win", Probability: p, Multiplier: params.Multiplier, StakeFactor: 1},
		{Label: "lose", Probability: 1 - p, Multiplier: 0, StakeFactor: 1},
	}, nil
}
