package casino

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardTop(t *testing.T) {
	lb := NewLeaderboard()

	lb.Record(1, decimal.NewFromInt(100), decimal.NewFromInt(200)) // +100
	lb.Record(2, decimal.NewFromInt(100), decimal.Zero)            // -100
	lb.Record(3, decimal.NewFromInt(50), decimal.NewFromInt(300))  // +250
	lb.Record(1, decimal.NewFromInt(100), decimal.Zero)            // net 0

	top := lb.Top(2)
	require.Len(t, top, 2)
	assert.Equal(t, int64(3), top[0].UserID)
	assert.True(t, top[0].Profit.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, int64(1), top[1].UserID)
	assert.True(t, top[1].Profit.IsZero())

	assert.Len(t, lb.Top(10), 3)
}

func TestRTPMonitorRatio(t *testing.T) {
	m := NewRTPMonitor()
	assert.Zero(t, m.Ratio(GameDice))

	m.Record(GameDice, decimal.NewFromInt(100), decimal.Zero)
	m.Record(GameDice, decimal.NewFromInt(100), decimal.NewFromInt(180))

	assert.InDelta(t, 0.9, m.Ratio(GameDice), 1e-9)
	assert.Zero(t, m.Ratio(GameCoinflip), "games are tracked independently")
}
