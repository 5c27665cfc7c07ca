package games

import (
	"fmt"

	"gambler/wager-engine/domain/entities"
)

// wheelRawSegments are the segment shapes per risk; each is rescaled to the target RTP
var wheelRawSegments = map[entities.Risk][]float64{
	entities.RiskLow:    {1.5, 1.2, 1.2, 1.2, 0, 1.2, 1.2, 1.2, 1.2, 0},
	entities.RiskMedium: {0, 1.9, 0, 1.5, 0, 2, 0, 1.5, 0, 3, 0, 1.8, 0, 2, 0, 1.5, 0, 1.6, 0, 4},
	entities.RiskHigh: {
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 1,
	},
}

// Wheel spins a wheel of equally likely segments
type Wheel struct {
	houseEdge float64
	segments  map[entities.Risk][]float64
}

// NewWheel creates a wheel engine
func NewWheel(houseEdge float64) (*Wheel, error) {
	if err := checkHouseEdge(entities.GameWheel, houseEdge); err != nil {
		return nil, err
	}
	w := &Wheel{houseEdge: houseEdge, segments: make(map[entities.Risk][]float64)}
	for risk, raw := range wheelRawSegments {
		probs := make([]float64, len(raw))
		for i := range probs {
			probs[i] = 1 / float64(len(raw))
		}
		table, err := normalizeTable(entities.GameWheel, string(risk), raw, probs, 1-houseEdge)
		if err != nil {
			return nil, err
		}
		w.segments[risk] = table
	}
	return w, nil
}

func (w *Wheel) Game() entities.Game   { return entities.GameWheel }
func (w *Wheel) HouseEdge() float64    { return w.houseEdge }
func (w *Wheel) MaxStakeFactor() int64 { return 1 }

func (w *Wheel) Normalize(params entities.GameParams) (entities.GameParams, error) {
	if params.Risk == "" {
		params.Risk = entities.RiskMedium
	}
	if !params.Risk.Valid() {
		return params, invalidParams("Risk must be low, medium or high")
	}
	return params, nil
}

func (w *Wheel) Evaluate(amount int64, params entities.GameParams, draws Draws) (*Outcome, error) {
	params, err := w.Normalize(params)
	if err != nil {
		return nil, err
	}

	segments := w.segments[params.Risk]
	segment := draws.IntN(len(segments))
	multiplier := segments[segment]
	description := fmt.Sprintf("The wheel stopped on %.2fx", multiplier)
	return settle(amount, multiplier, 1, description, map[string]any{
		"risk":    params.Risk,
		"segment": segment,
	}), nil
}

func (w *Wheel) Distribution(params entities.GameParams) ([]Bucket, error) {
	params, err := w.Normalize(params)
	if err != nil {
		return nil, err
	}
	segments := w.segments[params.Risk]
	buckets := make([]Bucket, len(segments))
	for i, m := range segments {
		buckets[i] = Bucket{
			Label:       fmt.Sprintf("segment %d", i),
			Probability: 1 / float64(len(segments)),
			Multiplier:  m,
			StakeFactor: 1,
		}
	}
	return buckets, nil
}
