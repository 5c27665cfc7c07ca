package games

import (
	"fmt"

	"gambler/wager-engine/domain/entities"
)

const (
	lambchopRungs       = 10
	lambchopDefaultRung = 3
	lambchopStepRisk    = 0.04 // rung i is survived with probability 1 - 0.04*i
)

// Lambchop climbs a ladder whose rungs get riskier; the player cashes out at a
// chosen rung and is paid RTP / P(reaching it).
type Lambchop struct {
	houseEdge float64
	reach     [lambchopRungs + 1]float64 // reach[r] = P(survive rungs 1..r)
}

// NewLambchop creates a lambchop engine
func NewLambchop(houseEdge float64) (*Lambchop, error) {
	if err := checkHouseEdge(entities.GameLambchop, houseEdge); err != nil {
		return nil, err
	}
	l := &Lambchop{houseEdge: houseEdge}
	l.reach[0] = 1
	for rung := 1; rung <= lambchopRungs; rung++ {
		l.reach[rung] = l.reach[rung-1] * survival(rung)
	}
	return l, nil
}

func survival(rung int) float64 {
	return 1 - lambchopStepRisk*float64(rung)
}

func (l *Lambchop) Game() entities.Game   { return entities.GameLambchop }
func (l *Lambchop) HouseEdge() float64    { return l.houseEdge }
func (l *Lambchop) MaxStakeFactor() int64 { return 1 }

func (l *Lambchop) Normalize(params entities.GameParams) (entities.GameParams, error) {
	if params.Rung == 0 {
		params.Rung = lambchopDefaultRung
	}
	if params.Rung < 1 || params.Rung > lambchopRungs {
		return params, invalidParams("Cash-out rung must be between 1 and %d", lambchopRungs)
	}
	return params, nil
}

func (l *Lambchop) multiplier(rung int) float64 {
	return (1 - l.houseEdge) / l.reach[rung]
}

func (l *Lambchop) Evaluate(amount int64, params entities.GameParams, draws Draws) (*Outcome, error) {
	params, err := l.Normalize(params)
	if err != nil {
		return nil, err
	}

	climbed := 0
	for rung := 1; rung <= params.Rung; rung++ {
		if draws.Float64() >= survival(rung) {
			break
		}
		climbed = rung
	}

	cashed := climbed == params.Rung
	multiplier := 0.0
	description := fmt.Sprintf("The lamb fell off rung %d", climbed+1)
	if cashed {
		multiplier = l.multiplier(params.Rung)
		description = fmt.Sprintf("Cashed out at rung %d", params.Rung)
	}
	return settle(amount, multiplier, 1, description, map[string]any{
		"target_rung": params.Rung,
		"climbed":     climbed,
		"cashed_out":  cashed,
	}), nil
}

func (l *Lambchop) Distribution(params entities.GameParams) ([]Bucket, error) {
	params, err := l.Normalize(params)
	if err != nil {
		return nil, err
	}
	p := l.reach[params.Rung]
	return []Bucket{
		{Label: "cashed_out", Probability: p, Multiplier: l.multiplier(params.Rung), StakeFactor: 1},
		{Label: "fell", Probability: 1 - p, Multiplier: 0, StakeFactor: 1},
	}, nil
}
