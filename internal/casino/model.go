package casino

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is the fairness record frozen into every round. Together with the
// revealed server secret it is enough to recompute the round from scratch.
type Snapshot struct {
	Game           string  `json:"game"`
	Version        int     `json:"version"`
	ServerSeedHash string  `json:"server_seed_hash"`
	ClientValue    string  `json:"client_value"`
	CounterUsed    int64   `json:"counter_used"`
	Fraction       float64 `json:"fraction"`
}

// snapshotVersion bumps when the resolution procedure changes shape, so old
// rounds verify against the procedure that produced them.
const snapshotVersion = 2

// Round is the immutable audit record of one resolved request.
type Round struct {
	ID          int64                  `json:"id"`
	UUID        string                 `json:"uuid"`
	UserID      int64                  `json:"user_id"`
	GameSlug    string                 `json:"game_slug"`
	Stake       decimal.Decimal        `json:"stake"`
	Payout      decimal.Decimal        `json:"payout"`
	HouseProfit decimal.Decimal        `json:"house_profit"`
	Input       map[string]interface{} `json:"input"`
	Outcome     map[string]interface{} `json:"outcome"`
	Fairness    Snapshot               `json:"fairness"`
	CreatedAt   time.Time              `json:"created_at"`
}

// Receipt is the response body of a resolved play request.
type Receipt struct {
	RoundID       int64                  `json:"round_id"`
	RoundUUID     string                 `json:"round_uuid"`
	Game          string                 `json:"game"`
	Result        map[string]interface{} `json:"result"`
	Stake         decimal.Decimal        `json:"stake"`
	Payout        decimal.Decimal        `json:"payout"`
	BalanceBefore decimal.Decimal        `json:"balance_before"`
	BalanceAfter  decimal.Decimal        `json:"balance_after"`
	Fairness      Snapshot               `json:"fairness"`
	CreatedAt     time.Time              `json:"created_at"`
}

// RoundEvent is the public payload published after commit; it feeds the live
// ws feed, the leaderboard and the RTP monitor.
type RoundEvent struct {
	RoundID int64           `json:"round_id"`
	UserID  int64           `json:"user_id"`
	Game    string          `json:"game"`
	Stake   decimal.Decimal `json:"stake"`
	Payout  decimal.Decimal `json:"payout"`
	Win     bool            `json:"win"`
}

type querier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

func insertRound(q querier, round *Round) error {
	const op = "casino.insertRound"

	inputJSON, err := json.Marshal(round.Input)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	outcomeJSON, err := json.Marshal(round.Outcome)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	snapJSON, err := json.Marshal(round.Fairness)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := q.Exec(`
	INSERT INTO rounds(uuid, user_id, game_slug, stake, payout, house_profit,
		input_json, outcome_json, pf_snapshot, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, round.UUID, round.UserID, round.GameSlug,
		round.Stake.String(), round.Payout.String(), round.HouseProfit.String(),
		string(inputJSON), string(outcomeJSON), string(snapJSON),
		round.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	round.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

const roundsPageSize = 100

func listRounds(conn *sql.DB, userID int64, gameSlug string) ([]Round, error) {
	const op = "casino.listRounds"

	rows, err := conn.Query(`
	SELECT id, uuid, user_id, game_slug, stake, payout, house_profit,
		input_json, outcome_json, pf_snapshot, created_at
	FROM rounds
	WHERE user_id = ? AND game_slug = ?
	ORDER BY created_at DESC, id DESC
	LIMIT ?
	`, userID, gameSlug, roundsPageSize)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []Round
	for rows.Next() {
		var (
			r                                Round
			stake, payout, profit            string
			inputJSON, outcomeJSON, snapJSON string
			created                          int64
		)
		err := rows.Scan(&r.ID, &r.UUID, &r.UserID, &r.GameSlug,
			&stake, &payout, &profit, &inputJSON, &outcomeJSON, &snapJSON, &created)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		if r.Stake, err = decimal.NewFromString(stake); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if r.Payout, err = decimal.NewFromString(payout); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if r.HouseProfit, err = decimal.NewFromString(profit); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err = json.Unmarshal([]byte(inputJSON), &r.Input); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err = json.Unmarshal([]byte(outcomeJSON), &r.Outcome); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err = json.Unmarshal([]byte(snapJSON), &r.Fairness); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		r.CreatedAt = time.Unix(created, 0)
		out = append(out, r)
	}
	return out, rows.Err()
}
