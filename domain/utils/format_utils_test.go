package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatShortNotation(t *testing.T) {
	tests := []struct {
		value    int64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1500, "1.5k"},
		{50000, "50k"},
		{-50000, "-50k"},
		{2_500_000, "2.50M"},
		{3_000_000_000, "3.00B"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatShortNotation(tt.value))
		})
	}
}

func TestFormatMultiplier(t *testing.T) {
	assert.Equal(t, "1.98x", FormatMultiplier(1.98))
	assert.Equal(t, "250x", FormatMultiplier(250))
}
