package rtp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWinProbability(t *testing.T) {
	tests := []struct {
		name   string
		target float64
		mult   float64
		want   float64
	}{
		{"coinflip default", 0.95, 2.0, 0.475},
		{"dice exact six", 0.90, 6.0, 0.15},
		{"target above mult clamps to one", 3.0, 2.0, 1.0},
		{"zero target", 0, 2.0, 0},
		{"zero mult never pays", 0.95, 0, 0},
		{"negative mult never pays", 0.95, -1, 0},
		{"negative target", -0.5, 2.0, 0},
		{"nan mult", 0.95, math.NaN(), 0},
		{"inf target", math.Inf(1), 2.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, WinProbability(tt.target, tt.mult), 1e-12)
		})
	}
}

func TestRetuneTableHitsTarget(t *testing.T) {
	base := []Entry{
		{Mult: 0, Weight: 64},
		{Mult: 1.2, Weight: 22},
		{Mult: 2, Weight: 9},
		{Mult: 5, Weight: 4},
		{Mult: 20, Weight: 1},
	}

	for _, target := range []float64{0.85, 0.90, 0.93, 0.97} {
		tuned := RetuneTable(base, target)
		require.Len(t, tuned, len(base))

		// Integer renormalization costs a little precision; 1% is the bound
		// the product owes.
		assert.InDelta(t, target, ExpectedValue(tuned), 0.01, "target %v", target)
	}
}

func TestRetuneTableDoesNotMutateInput(t *testing.T) {
	base := []Entry{
		{Mult: 0, Weight: 70},
		{Mult: 2, Weight: 30},
	}

	_ = RetuneTable(base, 0.5)

	assert.Equal(t, 70, base[0].Weight)
	assert.Equal(t, 30, base[1].Weight)
}

func TestRetuneTableDegenerate(t *testing.T) {
	// No positive-multiplier mass at all: the table must be corrected, not
	// crash or return something unsampleable.
	base := []Entry{
		{Mult: 0, Weight: 50},
		{Mult: 0, Weight: 50},
	}

	tuned := RetuneTable(base, 0.93)
	require.Len(t, tuned, 2)

	assert.Equal(t, 1.0, tuned[0].Mult)
	assert.GreaterOrEqual(t, tuned[0].Weight, 1)
	assert.Positive(t, TotalWeight(tuned))
}

func TestRetuneTableEmpty(t *testing.T) {
	assert.Nil(t, RetuneTable(nil, 0.93))
	assert.Nil(t, RetuneTable([]Entry{}, 0.93))
}

func TestRetuneTableWeightsBounded(t *testing.T) {
	base := []Entry{
		{Mult: 0, Weight: 9000},
		{Mult: 1.5, Weight: 1},
	}

	tuned := RetuneTable(base, 0.99)

	total := 0
	for _, e := range tuned {
		assert.GreaterOrEqual(t, e.Weight, 1)
		total += e.Weight
	}
	// Sum lands near the renorm total, off by at most rounding per row.
	assert.InDelta(t, 1000, total, float64(len(tuned)))
}

func TestRetuneTableExtremeTargetClamped(t *testing.T) {
	base := []Entry{
		{Mult: 0, Weight: 50},
		{Mult: 2, Weight: 50},
	}

	// Target at or above 1 is clamped to 0.9999 so the solve denominator
	// stays positive; the result must still be a valid table.
	tuned := RetuneTable(base, 1.5)
	assert.Positive(t, TotalWeight(tuned))
	for _, e := range tuned {
		assert.GreaterOrEqual(t, e.Weight, 1)
	}
}

func TestExpectedValue(t *testing.T) {
	table := []Entry{
		{Mult: 0, Weight: 50},
		{Mult: 2, Weight: 50},
	}
	assert.InDelta(t, 1.0, ExpectedValue(table), 1e-12)

	assert.Zero(t, ExpectedValue(nil))
}
