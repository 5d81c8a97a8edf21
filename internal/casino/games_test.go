package casino

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arguz-casino/internal/errs"
	"arguz-casino/internal/rtp"
)

func flatConfig(slug string, target, mult float64) GameConfig {
	return GameConfig{
		GameSlug:  slug,
		Active:    true,
		RTPTarget: target,
		MinStake:  decimal.NewFromInt(1),
		MaxStake:  decimal.NewFromInt(1000),
		Payout:    FlatPayout(mult),
	}
}

func tableConfig(slug string, target float64, table []rtp.Entry) GameConfig {
	return GameConfig{
		GameSlug:  slug,
		Active:    true,
		RTPTarget: target,
		MinStake:  decimal.NewFromInt(1),
		MaxStake:  decimal.NewFromInt(1000),
		Payout:    TablePayout(table),
	}
}

func TestCoinflipResolve(t *testing.T) {
	g, ok := GetGame(GameCoinflip)
	require.True(t, ok)

	cfg := flatConfig(GameCoinflip, 0.95, 2) // p_win = 0.475
	in := PlayInput{Stake: 10, Bet: "heads"}

	win := g.Resolve(0.10, cfg, in)
	assert.True(t, win.Win)
	assert.Equal(t, 2.0, win.Multiplier)
	assert.Equal(t, "heads", win.Display["result"])

	loss := g.Resolve(0.90, cfg, in)
	assert.False(t, loss.Win)
	assert.Equal(t, 0.0, loss.Multiplier)
	assert.Equal(t, "tails", loss.Display["result"], "shown side must disagree with the bet on a loss")

	// The win condition is strict: r equal to p_win loses.
	edge := g.Resolve(0.475, cfg, in)
	assert.False(t, edge.Win)
}

func TestCoinflipValidateInput(t *testing.T) {
	g, _ := GetGame(GameCoinflip)
	assert.NoError(t, g.ValidateInput(PlayInput{Bet: "tails"}))
	err := g.ValidateInput(PlayInput{Bet: "edge"})
	assert.True(t, errs.Is(err, errs.KindInvalidInput))
}

func TestDiceResolve(t *testing.T) {
	g, ok := GetGame(GameDice)
	require.True(t, ok)

	cfg := flatConfig(GameDice, 0.90, 6) // p_win = 0.15
	in := PlayInput{Stake: 10, Target: 6}

	win := g.Resolve(0.05, cfg, in)
	assert.True(t, win.Win)
	assert.Equal(t, 6.0, win.Multiplier)
	assert.Equal(t, 6, win.Display["roll"])

	// r = 0.50 loses; the shown face comes from the same draw:
	// idx = int(0.50 * 5) = 2 into the faces excluding the target.
	loss := g.Resolve(0.50, cfg, in)
	assert.False(t, loss.Win)
	assert.Equal(t, 3, loss.Display["roll"])
	assert.NotEqual(t, in.Target, loss.Display["roll"])

	// Losing faces never include the target, whatever the target is.
	for target := 1; target <= 6; target++ {
		for _, r := range []float64{0.2, 0.4, 0.6, 0.8, 0.999} {
			res := g.Resolve(r, cfg, PlayInput{Stake: 10, Target: target})
			if !res.Win {
				assert.NotEqual(t, target, res.Display["roll"],
					"target %d, r %v", target, r)
			}
		}
	}
}

func TestDiceValidateInput(t *testing.T) {
	g, _ := GetGame(GameDice)
	assert.NoError(t, g.ValidateInput(PlayInput{Target: 1}))
	assert.NoError(t, g.ValidateInput(PlayInput{Target: 6}))
	assert.Error(t, g.ValidateInput(PlayInput{Target: 0}))
	assert.Error(t, g.ValidateInput(PlayInput{Target: 7}))
}

func TestHiloResolve(t *testing.T) {
	g, ok := GetGame(GameHilo)
	require.True(t, ok)

	cfg := flatConfig(GameHilo, 0.975, 1.95)

	// r above one half is high; exactly one half is low.
	res := g.Resolve(0.6, cfg, PlayInput{Stake: 10, Choice: "high"})
	assert.True(t, res.Win)
	assert.Equal(t, 1.95, res.Multiplier)
	assert.Equal(t, "high", res.Display["outcome"])

	res = g.Resolve(0.5, cfg, PlayInput{Stake: 10, Choice: "high"})
	assert.False(t, res.Win)
	assert.Equal(t, "low", res.Display["outcome"])

	res = g.Resolve(0.2, cfg, PlayInput{Stake: 10, Choice: "low"})
	assert.True(t, res.Win)

	assert.Error(t, g.ValidateInput(PlayInput{Choice: "sideways"}))
}

func TestResolveDeterministicInR(t *testing.T) {
	cfgs := map[string]GameConfig{
		GameCoinflip:    flatConfig(GameCoinflip, 0.95, 2),
		GameDice:        flatConfig(GameDice, 0.90, 6),
		GameHilo:        flatConfig(GameHilo, 0.975, 1.95),
		GameSlotsCommon: tableConfig(GameSlotsCommon, 0.93, commonSlotsTable()),
	}
	in := PlayInput{Stake: 10, Bet: "heads", Choice: "high", Target: 4}

	for slug, cfg := range cfgs {
		g, ok := GetGame(slug)
		require.True(t, ok)
		for _, r := range []float64{0, 0.123456, 0.5, 0.777, 0.999999} {
			a := g.Resolve(r, cfg, in)
			b := g.Resolve(r, cfg, in)
			assert.Equal(t, a, b, "%s must replay identically at r=%v", slug, r)
		}
	}
}

func TestSampleTable(t *testing.T) {
	table := []rtp.Entry{
		{Mult: 2, Weight: 10},
		{Mult: 0, Weight: 10},
	}

	// r = 0.5 lands exactly on the first entry's cumulative boundary; the
	// earliest entry takes it.
	assert.Equal(t, 2.0, sampleTable(table, 0.5).Mult)
	assert.Equal(t, 2.0, sampleTable(table, 0).Mult)
	assert.Equal(t, 0.0, sampleTable(table, 0.51).Mult)
	assert.Equal(t, 0.0, sampleTable(table, 0.999999).Mult)

	// Empty tables degrade to a losing draw.
	assert.Equal(t, 0.0, sampleTable(nil, 0.3).Mult)
}

func commonSlotsTable() []rtp.Entry {
	return []rtp.Entry{
		{Mult: 0, Weight: 64},
		{Mult: 1.2, Weight: 22},
		{Mult: 2, Weight: 9},
		{Mult: 5, Weight: 4},
		{Mult: 20, Weight: 1},
	}
}

// A uniform grid of draws over a retuned table must pay out the configured
// target. The grid visits every weight bucket in proportion, so the average
// multiplier converges to the table's expected value without any sampling
// noise.
func TestTableGameRTPConvergence(t *testing.T) {
	const target = 0.93
	tuned := rtp.RetuneTable(commonSlotsTable(), target)
	require.NotEmpty(t, tuned)

	const n = 200000
	total := 0.0
	for i := 0; i < n; i++ {
		r := (float64(i) + 0.5) / n
		total += sampleTable(tuned, r).Mult
	}

	measured := total / n
	assert.InDelta(t, target, measured, 0.01,
		"average payout %v drifted from target %v", measured, target)
}

func TestDescribeMovements(t *testing.T) {
	assert.Equal(t, "Coinflip bet on heads", describeStake(GameCoinflip, PlayInput{Bet: "heads"}))
	assert.Equal(t, "Dice bet on 4", describeStake(GameDice, PlayInput{Target: 4}))
	assert.Equal(t, "scratch bet", describeStake(GameScratch, PlayInput{}))

	win := Resolution{Win: true, Multiplier: 5, Display: map[string]interface{}{"mult": 5.0}}
	assert.Equal(t, "scratch prize x5", describeCredit(GameScratch, win))
}
