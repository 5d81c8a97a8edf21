package ledger

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"arguz-casino/internal/errs"
	"arguz-casino/internal/monitoring"
)

type Kind string

const (
	KindStake   Kind = "stake"
	KindCredit  Kind = "credit"
	KindDeposit Kind = "deposit"
	KindAdjust  Kind = "adjust"
)

type Movement struct {
	ID            int64           `json:"id"`
	Ref           string          `json:"ref"`
	UserID        int64           `json:"user_id"`
	Kind          Kind            `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
}

type Balance struct {
	UserID    int64           `json:"user_id"`
	Available decimal.Decimal `json:"available"`
	Held      decimal.Decimal `json:"held"`
}

// Snapshot is the before/after pair a round receipt reports.
type Snapshot struct {
	Before decimal.Decimal
	After  decimal.Decimal
}

// querier is satisfied by *sql.DB and *sql.Tx. Every balance mutation runs on
// the caller's transaction; this package never commits.
type querier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// EnsureBalance creates the zeroed balance row on first touch. INSERT OR
// IGNORE keeps concurrent first-touch idempotent.
func EnsureBalance(q querier, userID int64) error {
	_, err := q.Exec(`
	INSERT OR IGNORE INTO balances(user_id, available, held) VALUES (?, '0', '0')
	`, userID)
	if err != nil {
		return fmt.Errorf("ledger.EnsureBalance: %w", err)
	}
	return nil
}

// GetBalance reads the user's balance, creating the row if needed.
func GetBalance(q querier, userID int64) (Balance, error) {
	const op = "ledger.GetBalance"

	if err := EnsureBalance(q, userID); err != nil {
		return Balance{}, err
	}

	var availStr, heldStr string
	err := q.QueryRow(`SELECT available, held FROM balances WHERE user_id = ?`, userID).
		Scan(&availStr, &heldStr)
	if err != nil {
		return Balance{}, fmt.Errorf("%s: %w", op, err)
	}

	avail, err := decimal.NewFromString(availStr)
	if err != nil {
		return Balance{}, fmt.Errorf("%s: %w", op, err)
	}
	held, err := decimal.NewFromString(heldStr)
	if err != nil {
		return Balance{}, fmt.Errorf("%s: %w", op, err)
	}

	return Balance{UserID: userID, Available: avail, Held: held}, nil
}

func setAvailable(q querier, userID int64, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("ledger.setAvailable: negative balance for user %d", userID)
	}
	_, err := q.Exec(`UPDATE balances SET available = ? WHERE user_id = ?`, amount.String(), userID)
	if err != nil {
		return fmt.Errorf("ledger.setAvailable: %w", err)
	}
	return nil
}

func appendMovement(q querier, userID int64, kind Kind, amount, before, after decimal.Decimal, desc string) error {
	_, err := q.Exec(`
	INSERT INTO movements(ref, user_id, kind, amount, balance_before, balance_after, description, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), userID, string(kind), amount.String(),
		before.String(), after.String(), desc, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("ledger.appendMovement: %w", err)
	}

	monitoring.MovementsTotal.WithLabelValues(string(kind)).Inc()
	return nil
}

// DebitAndCredit is the round's single balance mutation: debit the stake,
// credit the payout if any, one movement per change. It runs entirely on the
// caller's tx, so a failed round rolls all of it back together with the round
// record and the seed counter.
func DebitAndCredit(q querier, userID int64, stake, payout decimal.Decimal, stakeDesc, creditDesc string) (Snapshot, error) {
	bal, err := GetBalance(q, userID)
	if err != nil {
		return Snapshot{}, err
	}

	before := bal.Available
	if before.LessThan(stake) {
		return Snapshot{}, errs.E(errs.KindInsufficientFunds, "insufficient balance")
	}

	afterStake := before.Sub(stake)
	if err := setAvailable(q, userID, afterStake); err != nil {
		return Snapshot{}, err
	}
	if err := appendMovement(q, userID, KindStake, stake, before, afterStake, stakeDesc); err != nil {
		return Snapshot{}, err
	}

	after := afterStake
	if payout.IsPositive() {
		after = afterStake.Add(payout)
		if err := setAvailable(q, userID, after); err != nil {
			return Snapshot{}, err
		}
		if err := appendMovement(q, userID, KindCredit, payout, afterStake, after, creditDesc); err != nil {
			return Snapshot{}, err
		}
	}

	return Snapshot{Before: before, After: after}, nil
}

// Credit adds funds outside a round (deposits, manual adjustments).
func Credit(q querier, userID int64, amount decimal.Decimal, kind Kind, desc string) (Snapshot, error) {
	if !amount.IsPositive() {
		return Snapshot{}, errs.E(errs.KindInvalidInput, "amount must be positive")
	}

	bal, err := GetBalance(q, userID)
	if err != nil {
		return Snapshot{}, err
	}

	after := bal.Available.Add(amount)
	if err := setAvailable(q, userID, after); err != nil {
		return Snapshot{}, err
	}
	if err := appendMovement(q, userID, kind, amount, bal.Available, after, desc); err != nil {
		return Snapshot{}, err
	}

	return Snapshot{Before: bal.Available, After: after}, nil
}

// Debit removes funds outside a round, refusing to go negative.
func Debit(q querier, userID int64, amount decimal.Decimal, kind Kind, desc string) (Snapshot, error) {
	if !amount.IsPositive() {
		return Snapshot{}, errs.E(errs.KindInvalidInput, "amount must be positive")
	}

	bal, err := GetBalance(q, userID)
	if err != nil {
		return Snapshot{}, err
	}
	if bal.Available.LessThan(amount) {
		return Snapshot{}, errs.E(errs.KindInsufficientFunds, "insufficient balance")
	}

	after := bal.Available.Sub(amount)
	if err := setAvailable(q, userID, after); err != nil {
		return Snapshot{}, err
	}
	if err := appendMovement(q, userID, kind, amount, bal.Available, after, desc); err != nil {
		return Snapshot{}, err
	}

	return Snapshot{Before: bal.Available, After: after}, nil
}

// ListMovements returns the user's latest movements, newest first.
func ListMovements(conn *sql.DB, userID int64, limit int) ([]Movement, error) {
	const op = "ledger.ListMovements"

	if limit <= 0 || limit > 100 {
		limit = 100
	}

	rows, err := conn.Query(`
	SELECT id, ref, user_id, kind, amount, balance_before, balance_after, description, created_at
	FROM movements
	WHERE user_id = ?
	ORDER BY created_at DESC, id DESC
	LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []Movement
	for rows.Next() {
		var (
			m                   Movement
			kind                string
			amount, before, aft string
			created             int64
		)
		if err := rows.Scan(&m.ID, &m.Ref, &m.UserID, &kind, &amount, &before, &aft, &m.Description, &created); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		m.Kind = Kind(kind)
		if m.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if m.BalanceBefore, err = decimal.NewFromString(before); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if m.BalanceAfter, err = decimal.NewFromString(aft); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		m.CreatedAt = time.Unix(created, 0)
		out = append(out, m)
	}
	return out, rows.Err()
}
