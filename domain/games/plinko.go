package games

import (
	"fmt"
	"math"
	"strings"

	"gambler/wager-engine/domain/entities"
)

const (
	plinkoMinRows     = 8
	plinkoMaxRows     = 16
	plinkoDefaultRows = 12
)

// plinkoSteepness is how fast bucket payouts grow away from the centre
var plinkoSteepness = map[entities.Risk]float64{
	entities.RiskLow:    1.3,
	entities.RiskMedium: 1.6,
	entities.RiskHigh:   2.2,
}

type plinkoKey struct {
	risk entities.Risk
	rows int
}

// Plinko drops a ball through rows of pegs; the landing bucket is binomial
type Plinko struct {
	houseEdge float64
	tables    map[plinkoKey][]float64
}

// NewPlinko creates a plinko engine with a normalized table for every risk and row count
func NewPlinko(houseEdge float64) (*Plinko, error) {
	if err := checkHouseEdge(entities.GamePlinko, houseEdge); err != nil {
		return nil, err
	}
	p := &Plinko{houseEdge: houseEdge, tables: make(map[plinkoKey][]float64)}
	for risk, base := range plinkoSteepness {
		for rows := plinkoMinRows; rows <= plinkoMaxRows; rows++ {
			raw := make([]float64, rows+1)
			for bucket := range raw {
				raw[bucket] = math.Pow(base, math.Abs(float64(bucket)-float64(rows)/2))
			}
			table, err := normalizeTable(entities.GamePlinko, fmt.Sprintf("%s/%d", risk, rows), raw, plinkoProbabilities(rows), 1-houseEdge)
			if err != nil {
				return nil, err
			}
			p.tables[plinkoKey{risk: risk, rows: rows}] = table
		}
	}
	return p, nil
}

func plinkoProbabilities(rows int) []float64 {
	probs := make([]float64, rows+1)
	total := math.Pow(2, float64(rows))
	for bucket := range probs {
		probs[bucket] = binomial(rows, bucket) / total
	}
	return probs
}

func (p *Plinko) Game() entities.Game   { return entities.GamePlinko }
func (p *Plinko) HouseEdge() float64    { return p.houseEdge }
func (p *Plinko) MaxStakeFactor() int64 { return 1 }

func (p *Plinko) Normalize(params entities.GameParams) (entities.GameParams, error) {
	if params.Risk == "" {
		params.Risk = entities.RiskMedium
	}
	if !params.Risk.Valid() {
		return params, invalidParams("Risk must be low, medium or high")
	}
	if params.Rows == 0 {
		params.Rows = plinkoDefaultRows
	}
	if params.Rows < plinkoMinRows || params.Rows > plinkoMaxRows {
		return params, invalidParams("Rows must be between %d and %d", plinkoMinRows, plinkoMaxRows)
	}
	return params, nil
}

func (p *Plinko) Evaluate(amount int64, params entities.GameParams, draws Draws) (*Outcome, error) {
	params, err := p.Normalize(params)
	if err != nil {
		return nil, err
	}

	var path strings.Builder
	bucket := 0
	for row := 0; row < params.Rows; row++ {
		if draws.IntN(2) == 1 {
			bucket++
			path.WriteByte('R')
		} else {
			path.WriteByte('L')
		}
	}

	multiplier := p.tables[plinkoKey{risk: params.Risk, rows: params.Rows}][bucket]
	description := fmt.Sprintf("Landed in bucket %d of %d (%.2fx)", bucket, params.Rows, multiplier)
	return settle(amount, multiplier, 1, description, map[string]any{
		"risk":   params.Risk,
		"rows":   params.Rows,
		"bucket": bucket,
		"path":   path.String(),
	}), nil
}

func (p *Plinko) Distribution(params entities.GameParams) ([]Bucket, error) {
	params, err := p.Normalize(params)
	if err != nil {
		return nil, err
	}
	table := p.tables[plinkoKey{risk: params.Risk, rows: params.Rows}]
	probs := plinkoProbabilities(params.Rows)
	buckets := make([]Bucket, len(table))
	for i := range table {
		buckets[i] = Bucket{
			Label:       fmt.Sprintf("bucket %d", i),
			Probability: probs[i],
			Multiplier:  table[i],
			StakeFactor: 1,
		}
	}
	return buckets, nil
}
