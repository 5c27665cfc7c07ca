package games

import (
	"gambler/wager-engine/domain/draw"
	"gambler/wager-engine/domain/entities"

	"github.com/shopspring/decimal"
)

// SimulationCase is one game and parameter set to measure
type SimulationCase struct {
	Game   entities.Game
	Params entities.GameParams
}

// DefaultSimulationCases plays every game in its default configuration.
// GuessNumber has no default guess, so it picks 1 in the default range.
var DefaultSimulationCases = []SimulationCase{
	{entities.GameDice, entities.GameParams{}},
	{entities.GameLimbo, entities.GameParams{}},
	{entities.GameKeno, entities.GameParams{}},
	{entities.GameWheel, entities.GameParams{}},
	{entities.GamePlinko, entities.GameParams{}},
	{entities.GameBlackjack, entities.GameParams{}},
	{entities.GameSlots, entities.GameParams{}},
	{entities.GamePlanes, entities.GameParams{}},
	{entities.GameGuessNumber, entities.GameParams{Guess: 1}},
	{entities.GameLambchop, entities.GameParams{}},
}

// SimulationReport compares a measured return against the engine's target
type SimulationReport struct {
	Game     entities.Game
	Trials   int
	Wins     int
	Staked   int64
	Paid     int64
	Measured decimal.Decimal
	Target   decimal.Decimal
}

// Deviation returns measured minus target return
func (r SimulationReport) Deviation() decimal.Decimal {
	return r.Measured.Sub(r.Target)
}

// Within reports whether the measured return is within tolerance of the target
func (r SimulationReport) Within(tolerance float64) bool {
	return r.Deviation().Abs().LessThanOrEqual(decimal.NewFromFloat(tolerance))
}

// WinRate returns the fraction of trials that paid more than they staked
func (r SimulationReport) WinRate() float64 {
	if r.Trials == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Trials)
}

// Simulate plays trials wagers of a fixed amount on one stream and sums the
// results. Params are normalized first so defaults apply as in live play.
func Simulate(engine Engine, params entities.GameParams, trials int, seed int64) (SimulationReport, error) {
	const amount = 1_000_000

	normalized, err := engine.Normalize(params)
	if err != nil {
		return SimulationReport{}, err
	}

	report := SimulationReport{
		Game:   engine.Game(),
		Trials: trials,
		Target: decimal.NewFromFloat(1 - engine.HouseEdge()).Round(4),
	}

	stream := draw.NewStream(seed, 0)
	for i := 0; i < trials; i++ {
		outcome, err := engine.Evaluate(amount, normalized, stream)
		if err != nil {
			return report, err
		}
		report.Staked += outcome.Stake
		report.Paid += outcome.Payout
		if outcome.Effect > 0 {
			report.Wins++
		}
	}

	if report.Staked > 0 {
		report.Measured = decimal.NewFromInt(report.Paid).Div(decimal.NewFromInt(report.Staked)).Round(4)
	}
	return report, nil
}
