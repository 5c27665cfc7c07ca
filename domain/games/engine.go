// Package games implements the game outcome engines.
//
// Every engine is built from a house edge and normalizes its payout table at
// construction so that the expected return per unit staked equals exactly
// 1 - houseEdge. Engines are pure: they read draws and return an Outcome,
// and never touch balances or storage.
package games

import (
	"fmt"
	"math"

	"gambler/wager-engine/domain/entities"
)

// Draws is the random source an engine consumes
type Draws interface {
	Float64() float64
	IntN(n int) int
}

// Outcome is the result of evaluating one wager
type Outcome struct {
	Description string
	Multiplier  float64 // payout per unit of the requested amount
	StakeFactor int64   // stake = amount * StakeFactor
	Stake       int64
	Payout      int64
	Effect      int64 // Payout - Stake
	Details     map[string]any
}

// Bucket is one exact outcome class of an engine for fixed params
type Bucket struct {
	Label       string
	Probability float64
	Multiplier  float64
	StakeFactor int64
}

// Engine evaluates wagers for one game
type Engine interface {
	Game() entities.Game

	HouseEdge() float64

	// MaxStakeFactor is the largest multiple of the amount a single wager can put at risk
	MaxStakeFactor() int64

	// Normalize applies defaults and range checks, returning a ValidationError on bad input
	Normalize(params entities.GameParams) (entities.GameParams, error)

	Evaluate(amount int64, params entities.GameParams, draws Draws) (*Outcome, error)

	// Distribution returns the exact outcome buckets for the given params
	Distribution(params entities.GameParams) ([]Bucket, error)
}

// ExpectedReturn returns Σp·m / Σp·stake for a distribution
func ExpectedReturn(buckets []Bucket) float64 {
	var paid, staked float64
	for _, b := range buckets {
		paid += b.Probability * b.Multiplier
		staked += b.Probability * float64(b.StakeFactor)
	}
	if staked == 0 {
		return 0
	}
	return paid / staked
}

// TotalProbability returns Σp for a distribution
func TotalProbability(buckets []Bucket) float64 {
	var total float64
	for _, b := range buckets {
		total += b.Probability
	}
	return total
}

// floorMoney floors a float amount, absorbing representation error such as
// 100 * 1.98 = 197.99999999999997
func floorMoney(x float64) float64 {
	return math.Floor(x + 1e-9 + math.Abs(x)*1e-12)
}

func settle(amount int64, multiplier float64, stakeFactor int64, description string, details map[string]any) *Outcome {
	if stakeFactor < 1 {
		stakeFactor = 1
	}
	stake := amount * stakeFactor
	payout := int64(floorMoney(float64(amount) * multiplier))
	if payout < 0 {
		payout = 0
	}
	if details == nil {
		details = map[string]any{}
	}
	details["multiplier"] = multiplier
	return &Outcome{
		Description: description,
		Multiplier:  multiplier,
		StakeFactor: stakeFactor,
		Stake:       stake,
		Payout:      payout,
		Effect:      payout - stake,
		Details:     details,
	}
}

// isFinite is false for NaN and the infinities, which slip past range comparisons
func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func checkHouseEdge(game entities.Game, houseEdge float64) error {
	if math.IsNaN(houseEdge) || houseEdge <= 0 || houseEdge >= 1 {
		return entities.NewConfigurationError(
			fmt.Sprintf("house edge for %s", game),
			fmt.Sprintf("%.4f must be in (0, 1)", houseEdge),
		)
	}
	return nil
}

// normalizeTable scales raw multipliers so that Σ p_i·m_i equals rtp
func normalizeTable(game entities.Game, table string, raw, probs []float64, rtp float64) ([]float64, error) {
	if len(raw) != len(probs) {
		return nil, entities.NewConfigurationError(
			fmt.Sprintf("%s table %s", game, table), "payout and probability lengths differ")
	}
	var expected float64
	for i, m := range raw {
		if m < 0 || math.IsNaN(m) {
			return nil, entities.NewConfigurationError(
				fmt.Sprintf("%s table %s", game, table), fmt.Sprintf("negative payout at index %d", i))
		}
		expected += m * probs[i]
	}
	if expected <= 0 {
		return nil, entities.NewConfigurationError(
			fmt.Sprintf("%s table %s", game, table), "table never pays")
	}
	scale := rtp / expected
	scaled := make([]float64, len(raw))
	for i, m := range raw {
		scaled[i] = m * scale
	}
	return scaled, nil
}

func invalidParams(format string, args ...any) error {
	return entities.NewValidationError("invalid_params", fmt.Sprintf(format, args...))
}

// binomial returns n choose k as a float
func binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1.0
	for i := 1; i <= k; i++ {
		result = result * float64(n-k+i) / float64(i)
	}
	return result
}

// sampleWithoutReplacement draws k distinct values from 1..n with a partial Fisher-Yates shuffle
func sampleWithoutReplacement(draws Draws, n, k int) []int {
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i + 1
	}
	for i := 0; i < k; i++ {
		j := i + draws.IntN(n-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}
