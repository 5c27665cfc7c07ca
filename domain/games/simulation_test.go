package games

import (
	"testing"

	"gambler/wager-engine/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateIsDeterministicPerSeed(t *testing.T) {
	registry, err := NewRegistry(FixedHouseEdge(0.02))
	require.NoError(t, err)

	for _, tc := range DefaultSimulationCases {
		t.Run(string(tc.Game), func(t *testing.T) {
			engine, ok := registry.Get(tc.Game)
			require.True(t, ok)

			first, err := Simulate(engine, tc.Params, 500, 42)
			require.NoError(t, err)
			second, err := Simulate(engine, tc.Params, 500, 42)
			require.NoError(t, err)

			assert.Equal(t, first.Paid, second.Paid)
			assert.Equal(t, 500, first.Trials)
			assert.True(t, first.Staked >= 500*1_000_000)
			assert.Equal(t, "0.98", first.Target.String())
			assert.True(t, first.WinRate() >= 0 && first.WinRate() <= 1)
		})
	}
}

func TestSimulateRejectsInvalidParams(t *testing.T) {
	engine, err := NewDice(0.01)
	require.NoError(t, err)

	_, err = Simulate(engine, entities.GameParams{Target: 150}, 10, 1)
	_, ok := entities.IsValidationError(err)
	assert.True(t, ok)
}

func TestSimulationReportWithin(t *testing.T) {
	engine, err := NewLimbo(0.01)
	require.NoError(t, err)

	report, err := Simulate(engine, entities.GameParams{Multiplier: 2}, 20_000, 7)
	require.NoError(t, err)
	assert.True(t, report.Within(0.05), "measured %s target %s", report.Measured, report.Target)
	assert.False(t, report.Within(-1))
}
