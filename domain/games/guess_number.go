package games

import (
	"fmt"

	"gambler/wager-engine/domain/entities"
)

const (
	guessMinRange     = 2
	guessMaxRange     = 100
	guessDefaultRange = 10
)

// GuessNumber draws a number in [1, Range] and pays Range*RTP on an exact match
type GuessNumber struct {
	houseEdge float64
}

// NewGuessNumber creates a guess-the-number engine
func NewGuessNumber(houseEdge float64) (*GuessNumber, error) {
	if err := checkHouseEdge(entities.GameGuessNumber, houseEdge); err != nil {
		return nil, err
	}
	return &GuessNumber{houseEdge: houseEdge}, nil
}

func (g *GuessNumber) Game() entities.Game   { return entities.GameGuessNumber }
func (g *GuessNumber) HouseEdge() float64    { return g.houseEdge }
func (g *GuessNumber) MaxStakeFactor() int64 { return 1 }

func (g *GuessNumber) Normalize(params entities.GameParams) (entities.GameParams, error) {
	if params.Range == 0 {
		params.Range = guessDefaultRange
	}
	if params.Range < guessMinRange || params.Range > guessMaxRange {
		return params, invalidParams("Range must be between %d and %d", guessMinRange, guessMaxRange)
	}
	if params.Guess < 1 || params.Guess > params.Range {
		return params, invalidParams("Pick a number between 1 and %d", params.Range)
	}
	return params, nil
}

func (g *GuessNumber) Evaluate(amount int64, params entities.GameParams, draws Draws) (*Outcome, error) {
	params, err := g.Normalize(params)
	if err != nil {
		return nil, err
	}

	drawn := draws.IntN(params.Range) + 1
	hit := drawn == params.Guess

	multiplier := 0.0
	if hit {
		multiplier = (1 - g.houseEdge) * float64(params.Range)
	}
	description := fmt.Sprintf("The number was %d (you guessed %d)", drawn, params.Guess)
	return settle(amount, multiplier, 1, description, map[string]any{
		"drawn": drawn,
		"guess": params.Guess,
		"range": params.Range,
		"hit":   hit,
	}), nil
}

func (g *GuessNumber) Distribution(params entities.GameParams) ([]Bucket, error) {
	params, err := g.Normalize(params)
	if err != nil {
		return nil, err
	}
	p := 1 / float64(params.Range)
	return []Bucket{
		{Label: "hit", Probability: p, Multiplier: (1 - g.houseEdge) * float64(params.Range), StakeFactor: 1},
		{Label: "miss", Probability: 1 - p, Multiplier: 0, StakeFactor: 1},
	}, nil
}
