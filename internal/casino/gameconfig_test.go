package casino

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arguz-casino/internal/config"
	"arguz-casino/internal/db"
	"arguz-casino/internal/errs"
)

func newTestConfigStore(t *testing.T) (*ConfigStore, *sql.DB) {
	t.Helper()

	dir, err := os.MkdirTemp("", "gameconfig_test")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	conn, err := db.Open(filepath.Join(dir, "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewConfigStore(conn), conn
}

func TestSeedDefaultsInsertIfAbsent(t *testing.T) {
	cs, _ := newTestConfigStore(t)

	require.NoError(t, cs.SeedDefaults(config.BuiltinGameDefaults()))

	all, err := cs.List()
	require.NoError(t, err)
	assert.Len(t, all, len(Slugs()))

	// An operator edit survives a reseed.
	cfg, err := cs.Get(GameCoinflip)
	require.NoError(t, err)
	cfg.RTPTarget = 0.80
	_, err = cs.Upsert(cfg)
	require.NoError(t, err)

	require.NoError(t, cs.SeedDefaults(config.BuiltinGameDefaults()))
	got, err := cs.Get(GameCoinflip)
	require.NoError(t, err)
	assert.Equal(t, 0.80, got.RTPTarget)
}

func TestConfigRoundTrip(t *testing.T) {
	cs, _ := newTestConfigStore(t)

	in := tableConfig(GameScratch, 0.90, commonSlotsTable())
	_, err := cs.Upsert(in)
	require.NoError(t, err)

	got, err := cs.Get(GameScratch)
	require.NoError(t, err)
	assert.Equal(t, in.RTPTarget, got.RTPTarget)
	assert.Equal(t, PayoutTable, got.Payout.Kind)
	assert.Equal(t, in.Payout.Table, got.Payout.Table)
	assert.True(t, got.MinStake.Equal(in.MinStake))
	assert.True(t, got.MaxStake.Equal(in.MaxStake))
}

func TestConfigValidation(t *testing.T) {
	cs, _ := newTestConfigStore(t)

	bad := flatConfig(GameCoinflip, 1.0, 2) // rtp_target must stay below 1
	_, err := cs.Upsert(bad)
	assert.True(t, errs.Is(err, errs.KindInvalidInput))

	bad = flatConfig(GameCoinflip, 0.95, 0)
	_, err = cs.Upsert(bad)
	assert.True(t, errs.Is(err, errs.KindInvalidInput))

	bad = flatConfig(GameCoinflip, 0.95, 2)
	bad.MinStake = decimal.NewFromInt(100)
	bad.MaxStake = decimal.NewFromInt(10)
	_, err = cs.Upsert(bad)
	assert.True(t, errs.Is(err, errs.KindInvalidInput))

	bad = tableConfig(GameScratch, 0.90, nil)
	_, err = cs.Upsert(bad)
	assert.True(t, errs.Is(err, errs.KindInvalidInput))

	_, err = cs.Get("nope")
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

func TestDeactivateKeepsRow(t *testing.T) {
	cs, _ := newTestConfigStore(t)
	require.NoError(t, cs.SeedDefaults(config.BuiltinGameDefaults()))

	got, err := cs.Deactivate(GameDice)
	require.NoError(t, err)
	assert.False(t, got.Active)

	// Row is still there, just inactive.
	got, err = cs.Get(GameDice)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Equal(t, 0.90, got.RTPTarget)
}

func TestUpsertInvalidatesCache(t *testing.T) {
	cs, _ := newTestConfigStore(t)
	require.NoError(t, cs.SeedDefaults(config.BuiltinGameDefaults()))

	before, err := cs.Get(GameCoinflip)
	require.NoError(t, err)

	before.RTPTarget = 0.85
	_, err = cs.Upsert(before)
	require.NoError(t, err)

	after, err := cs.Get(GameCoinflip)
	require.NoError(t, err)
	assert.Equal(t, 0.85, after.RTPTarget, "a write must not serve the stale cached config")
}
