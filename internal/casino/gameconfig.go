package casino

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"arguz-casino/internal/config"
	"arguz-casino/internal/errs"
	"arguz-casino/internal/rtp"
)

type PayoutKind string

const (
	PayoutFlat  PayoutKind = "flat"
	PayoutTable PayoutKind = "table"
)

// PayoutStructure is the tagged variant behind a game's pay schedule: either a
// single flat multiplier or a weighted table. It is validated here, at the
// configuration boundary, so game resolvers can trust what they read.
type PayoutStructure struct {
	Kind  PayoutKind  `json:"kind"`
	Mult  float64     `json:"mult,omitempty"`
	Table []rtp.Entry `json:"table,omitempty"`
}

func FlatPayout(mult float64) PayoutStructure {
	return PayoutStructure{Kind: PayoutFlat, Mult: mult}
}

func TablePayout(table []rtp.Entry) PayoutStructure {
	return PayoutStructure{Kind: PayoutTable, Table: table}
}

func (p PayoutStructure) validate() error {
	switch p.Kind {
	case PayoutFlat:
		if p.Mult <= 0 {
			return errs.E(errs.KindInvalidInput, "payout multiplier must be > 0")
		}
	case PayoutTable:
		if len(p.Table) == 0 {
			return errs.E(errs.KindInvalidInput, "paytable must not be empty")
		}
		for _, e := range p.Table {
			if e.Mult < 0 {
				return errs.E(errs.KindInvalidInput, "paytable mult must be >= 0")
			}
			if e.Weight <= 0 {
				return errs.E(errs.KindInvalidInput, "paytable weight must be > 0")
			}
		}
	default:
		return errs.E(errs.KindInvalidInput, "payout kind must be flat or table")
	}
	return nil
}

type GameConfig struct {
	GameSlug  string          `json:"game_slug"`
	Active    bool            `json:"active"`
	RTPTarget float64         `json:"rtp_target"`
	MinStake  decimal.Decimal `json:"min_stake"`
	MaxStake  decimal.Decimal `json:"max_stake"`
	Payout    PayoutStructure `json:"payout"`
}

func (c GameConfig) validate() error {
	if c.GameSlug == "" {
		return errs.E(errs.KindInvalidInput, "game_slug is required")
	}
	if c.RTPTarget < 0 || c.RTPTarget >= 1 {
		return errs.E(errs.KindInvalidInput, "rtp_target must be in [0, 1)")
	}
	if !c.MinStake.IsPositive() {
		return errs.E(errs.KindInvalidInput, "min_stake must be > 0")
	}
	if !c.MaxStake.IsPositive() {
		return errs.E(errs.KindInvalidInput, "max_stake must be > 0")
	}
	if c.MaxStake.LessThan(c.MinStake) {
		return errs.E(errs.KindInvalidInput, "max_stake must be >= min_stake")
	}
	return c.Payout.validate()
}

const configCacheTTL = 5 * time.Second

// ConfigStore reads game configuration. Rounds consume configs read-only; the
// short cache means an admin edit lands within seconds.
type ConfigStore struct {
	conn  *sql.DB
	cache *gocache.Cache
}

func NewConfigStore(conn *sql.DB) *ConfigStore {
	return &ConfigStore{
		conn:  conn,
		cache: gocache.New(configCacheTTL, time.Minute),
	}
}

func (cs *ConfigStore) Get(slug string) (GameConfig, error) {
	const op = "casino.ConfigStore.Get"

	if v, ok := cs.cache.Get(slug); ok {
		return v.(GameConfig), nil
	}

	row := cs.conn.QueryRow(`
	SELECT game_slug, active, rtp_target, min_stake, max_stake, payout
	FROM game_configs WHERE game_slug = ?
	`, slug)

	var (
		cfg            GameConfig
		active         int
		minStr, maxStr string
		payoutJSON     string
	)
	err := row.Scan(&cfg.GameSlug, &active, &cfg.RTPTarget, &minStr, &maxStr, &payoutJSON)
	if err == sql.ErrNoRows {
		return GameConfig{}, errs.E(errs.KindNotFound, "game not configured")
	}
	if err != nil {
		return GameConfig{}, fmt.Errorf("%s: %w", op, err)
	}

	cfg.Active = active == 1
	if cfg.MinStake, err = decimal.NewFromString(minStr); err != nil {
		return GameConfig{}, fmt.Errorf("%s: %w", op, err)
	}
	if cfg.MaxStake, err = decimal.NewFromString(maxStr); err != nil {
		return GameConfig{}, fmt.Errorf("%s: %w", op, err)
	}
	if err = json.Unmarshal([]byte(payoutJSON), &cfg.Payout); err != nil {
		return GameConfig{}, fmt.Errorf("%s: %w", op, err)
	}

	cs.cache.Set(slug, cfg, gocache.DefaultExpiration)
	return cfg, nil
}

func (cs *ConfigStore) List() ([]GameConfig, error) {
	const op = "casino.ConfigStore.List"

	rows, err := cs.conn.Query(`
	SELECT game_slug, active, rtp_target, min_stake, max_stake, payout
	FROM game_configs ORDER BY game_slug
	`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []GameConfig
	for rows.Next() {
		var (
			cfg            GameConfig
			active         int
			minStr, maxStr string
			payoutJSON     string
		)
		if err := rows.Scan(&cfg.GameSlug, &active, &cfg.RTPTarget, &minStr, &maxStr, &payoutJSON); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		cfg.Active = active == 1
		if cfg.MinStake, err = decimal.NewFromString(minStr); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if cfg.MaxStake, err = decimal.NewFromString(maxStr); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err = json.Unmarshal([]byte(payoutJSON), &cfg.Payout); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, cfg)
	}
	return out, rows.Err()
}

func (cs *ConfigStore) Upsert(cfg GameConfig) (GameConfig, error) {
	const op = "casino.ConfigStore.Upsert"

	if err := cfg.validate(); err != nil {
		return GameConfig{}, err
	}

	payoutJSON, err := json.Marshal(cfg.Payout)
	if err != nil {
		return GameConfig{}, fmt.Errorf("%s: %w", op, err)
	}

	_, err = cs.conn.Exec(`
	INSERT INTO game_configs(game_slug, active, rtp_target, min_stake, max_stake, payout)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(game_slug) DO UPDATE SET
		active = excluded.active,
		rtp_target = excluded.rtp_target,
		min_stake = excluded.min_stake,
		max_stake = excluded.max_stake,
		payout = excluded.payout
	`, cfg.GameSlug, boolToInt(cfg.Active), cfg.RTPTarget,
		cfg.MinStake.String(), cfg.MaxStake.String(), string(payoutJSON))
	if err != nil {
		return GameConfig{}, fmt.Errorf("%s: %w", op, err)
	}

	cs.cache.Delete(cfg.GameSlug)
	return cfg, nil
}

// Deactivate is the logical delete: the config row stays, the game stops
// accepting rounds.
func (cs *ConfigStore) Deactivate(slug string) (GameConfig, error) {
	cfg, err := cs.Get(slug)
	if err != nil {
		return GameConfig{}, err
	}
	cfg.Active = false
	return cs.Upsert(cfg)
}

// SeedDefaults inserts boot defaults for games that have no config row yet.
// Existing rows are left alone so operator edits survive restarts.
func (cs *ConfigStore) SeedDefaults(defaults []config.GameDefault) error {
	const op = "casino.ConfigStore.SeedDefaults"

	for _, d := range defaults {
		_, err := cs.Get(d.Slug)
		if err == nil {
			continue
		}
		if !errs.Is(err, errs.KindNotFound) {
			return err
		}

		payout := FlatPayout(d.Multiplier)
		if len(d.Paytable) > 0 {
			table := make([]rtp.Entry, len(d.Paytable))
			for i, e := range d.Paytable {
				table[i] = rtp.Entry{Mult: e.Mult, Weight: e.Weight}
			}
			payout = TablePayout(table)
		}

		cfg := GameConfig{
			GameSlug:  d.Slug,
			Active:    d.Active,
			RTPTarget: d.RTPTarget,
			MinStake:  decimal.NewFromFloat(d.MinStake),
			MaxStake:  decimal.NewFromFloat(d.MaxStake),
			Payout:    payout,
		}
		if _, err := cs.Upsert(cfg); err != nil {
			return fmt.Errorf("%s: %s: %w", op, d.Slug, err)
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
