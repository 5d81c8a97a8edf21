package db

import (
	"database/sql"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS pf_seeds (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id       INTEGER NOT NULL,
		game_slug     TEXT NOT NULL,
		server_secret TEXT NOT NULL,
		client_value  TEXT NOT NULL,
		counter       INTEGER NOT NULL DEFAULT 0,
		active        INTEGER NOT NULL DEFAULT 1,
		created_at    INTEGER NOT NULL
	);`,

	// At most one active seed per (user, game).
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_pf_seeds_active
		ON pf_seeds(user_id, game_slug) WHERE active = 1;`,

	`CREATE TABLE IF NOT EXISTS balances (
		user_id   INTEGER PRIMARY KEY,
		available TEXT NOT NULL DEFAULT '0',
		held      TEXT NOT NULL DEFAULT '0'
	);`,

	`CREATE TABLE IF NOT EXISTS movements (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		ref            TEXT NOT NULL,
		user_id        INTEGER NOT NULL,
		kind           TEXT NOT NULL,
		amount         TEXT NOT NULL,
		balance_before TEXT NOT NULL,
		balance_after  TEXT NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		created_at     INTEGER NOT NULL
	);`,

	`CREATE INDEX IF NOT EXISTS idx_movements_user
		ON movements(user_id, created_at);`,

	`CREATE TABLE IF NOT EXISTS rounds (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		uuid         TEXT NOT NULL,
		user_id      INTEGER NOT NULL,
		game_slug    TEXT NOT NULL,
		stake        TEXT NOT NULL,
		payout       TEXT NOT NULL,
		house_profit TEXT NOT NULL,
		input_json   TEXT NOT NULL,
		outcome_json TEXT NOT NULL,
		pf_snapshot  TEXT NOT NULL,
		created_at   INTEGER NOT NULL
	);`,

	`CREATE INDEX IF NOT EXISTS idx_rounds_user_game
		ON rounds(user_id, game_slug, created_at);`,

	`CREATE TABLE IF NOT EXISTS game_configs (
		game_slug  TEXT PRIMARY KEY,
		active     INTEGER NOT NULL DEFAULT 1,
		rtp_target REAL NOT NULL,
		min_stake  TEXT NOT NULL,
		max_stake  TEXT NOT NULL,
		payout     TEXT NOT NULL
	);`,

	`CREATE TABLE IF NOT EXISTS audit_logs (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    INTEGER NOT NULL,
		action     TEXT NOT NULL,
		metadata   TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	);`,
}

func Migrate(conn *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("db.Migrate: %w", err)
		}
	}
	return nil
}
