package games

import (
	"fmt"
	"sort"
	"strings"

	"gambler/wager-engine/domain/entities"
)

const planesDefault = "jet"

// planeArrival is the chance each plane makes it to the runway
var planeArrival = map[string]float64{
	"glider": 0.9,
	"jet":    0.5,
	"rocket": 0.1,
}

// Planes pays RTP/p when the chosen plane arrives
type Planes struct {
	houseEdge float64
}

// NewPlanes creates a planes engine
func NewPlanes(houseEdge float64) (*Planes, error) {
	if err := checkHouseEdge(entities.GamePlanes, houseEdge); err != nil {
		return nil, err
	}
	return &Planes{houseEdge: houseEdge}, nil
}

func (p *Planes) Game() entities.Game   { return entities.GamePlanes }
func (p *Planes) HouseEdge() float64    { return p.houseEdge }
func (p *Planes) MaxStakeFactor() int64 { return 1 }

func (p *Planes) Normalize(params entities.GameParams) (entities.GameParams, error) {
	plane := strings.ToLower(strings.TrimSpace(params.Plane))
	if plane == "" {
		plane = planesDefault
	}
	if _, ok := planeArrival[plane]; !ok {
		names := make([]string, 0, len(planeArrival))
		for name := range planeArrival {
			names = append(names, name)
		}
		sort.Strings(names)
		return params, invalidParams("Unknown plane %q, choose one of %s", params.Plane, strings.Join(names, ", "))
	}
	params.Plane = plane
	return params, nil
}

func (p *Planes) Evaluate(amount int64, params entities.GameParams, draws Draws) (*Outcome, error) {
	params, err := p.Normalize(params)
	if err != nil {
		return nil, err
	}

	arrival := planeArrival[params.Plane]
	landed := draws.Float64() < arrival

	multiplier := 0.0
	description := fmt.Sprintf("The %s went down", params.Plane)
	if landed {
		multiplier = (1 - p.houseEdge) / arrival
		description = fmt.Sprintf("The %s landed safely", params.Plane)
	}
	return settle(amount, multiplier, 1, description, map[string]any{
		"plane":  params.Plane,
		"landed": landed,
	}), nil
}

func (p *Planes) Distribution(params entities.GameParams) ([]Bucket, error) {
	params, err := p.Normalize(params)
	if err != nil {
		return nil, err
	}
	arrival := planeArrival[params.Plane]
	return []Bucket{
		{Label: "landed", Probability: arrival, Multiplier: (1 - p.houseEdge) / arrival, StakeFactor: 1},
		{Label: "crashed", Probability: 1 - arrival, Multiplier: 0, StakeFactor: 1},
	}, nil
}
