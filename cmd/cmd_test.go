package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	root := NewRootCommand()

	for _, name := range []string{"run", "migrate", "reconcile", "simulate"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}

	for _, name := range []string{"up", "down", "status"} {
		cmd, _, err := root.Find([]string{"migrate", name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestSimulate_PrintsEveryGame(t *testing.T) {
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"simulate", "--trials", "500", "--tolerance", "1000"})

	require.NoError(t, root.Execute())

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "GAME"))
	for _, game := range []string{"dice", "limbo", "keno", "wheel", "plinko", "blackjack", "slots", "planes", "guess", "lambchop"} {
		assert.Contains(t, text, game)
	}
}

func TestSimulate_RejectsZeroTrials(t *testing.T) {
	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"simulate", "--trials", "0"})

	assert.Error(t, root.Execute())
}

func TestMigrateDown_RejectsBadSteps(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{"migrate", "down", "zero"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid step count")
}
