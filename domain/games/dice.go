package games

import (
	"fmt"
	"math"

	"gambler/wager-engine/domain/entities"
)

const (
	diceFaces         = 10000 // rolls 0.00 through 99.99
	diceMinTarget     = 2.0
	diceMaxTarget     = 98.0
	diceDefaultTarget = 50.0
)

// Dice rolls 0.00-99.99 and pays when the roll lands under (or over) the target
type Dice struct {
	houseEdge float64
}

// NewDice creates a dice engine
func NewDice(houseEdge float64) (*Dice, error) {
	if err := checkHouseEdge(entities.GameDice, houseEdge); err != nil {
		return nil, err
	}
	return &Dice{houseEdge: houseEdge}, nil
}

func (d *Dice) Game() entities.Game   { return entities.GameDice }
func (d *Dice) HouseEdge() float64    { return d.houseEdge }
func (d *Dice) MaxStakeFactor() int64 { return 1 }

func (d *Dice) Normalize(params entities.GameParams) (entities.GameParams, error) {
	if params.Target == 0 {
		params.Target = diceDefaultTarget
	}
	if !isFinite(params.Target) {
		return params, invalidParams("Dice target must be a number")
	}
	cents := math.Round(params.Target * 100)
	if cents < diceMinTarget*100 || cents > diceMaxTarget*100 {
		return params, invalidParams("Dice target must be between %.0f and %.0f", diceMinTarget, diceMaxTarget)
	}
	params.Target = cents / 100
	return params, nil
}

// winningFaces returns how many of the 10000 faces win
func (d *Dice) winningFaces(params entities.GameParams) int {
	target := int(math.Round(params.Target * 100))
	if params.Over {
		return diceFaces - target
	}
	return target
}

func (d *Dice) multiplier(params entities.GameParams) float64 {
	return (1 - d.houseEdge) * diceFaces / float64(d.winningFaces(params))
}

func (d *Dice) Evaluate(amount int64, params entities.GameParams, draws Draws) (*Outcome, error) {
	params, err := d.Normalize(params)
	if err != nil {
		return nil, err
	}

	roll := draws.IntN(diceFaces)
	target := int(math.Round(params.Target * 100))
	direction := "under"
	won := roll < target
	if params.Over {
		direction = "over"
		won = roll >= target
	}

	multiplier := 0.0
	if won {
		multiplier = d.multiplier(params)
	}
	description := fmt.Sprintf("Rolled %.2f (%s %.2f)", float64(roll)/100, direction, params.Target)
	return settle(amount, multiplier, 1, description, map[string]any{
		"roll":      float64(roll) / 100,
		"target":    params.Target,
		"direction": direction,
		"won":       won,
	}), nil
}

func (d *Dice) Distribution(params entities.GameParams) ([]Bucket, error) {
	params, err := d.Normalize(params)
	if err != nil {
		return nil, err
	}
	p := float64(d.winningFaces(params)) / diceFaces
	return []Bucket{
		{Label: "win", Probability: p, Multiplier: d.multiplier(params), StakeFactor: 1},
		{Label: "lose", Probability: 1 - p, Multiplier: 0, StakeFactor: 1},
	}, nil
}
