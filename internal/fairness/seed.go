package fairness

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"arguz-casino/internal/db"
	"arguz-casino/internal/errs"
)

const maxClientValueLen = 100

type Seed struct {
	ID           int64
	UserID       int64
	GameSlug     string
	ServerSecret string
	ClientValue  string
	Counter      int64
	Active       bool
	CreatedAt    time.Time
}

// PublicSeed is the externally visible view: the commitment, never the secret.
type PublicSeed struct {
	Game           string `json:"game"`
	ServerSeedHash string `json:"server_seed_hash"`
	ClientValue    string `json:"client_value"`
	Counter        int64  `json:"counter"`
}

// Reveal is returned once, on rotation, for the seed being retired.
type Reveal struct {
	ServerSecret   string `json:"server_secret"`
	ServerSeedHash string `json:"server_seed_hash"`
	ClientValue    string `json:"client_value"`
	LastCounter    int64  `json:"last_counter"`
}

func (s *Seed) Public() PublicSeed {
	return PublicSeed{
		Game:           s.GameSlug,
		ServerSeedHash: HashSecret(s.ServerSecret),
		ClientValue:    s.ClientValue,
		Counter:        s.Counter,
	}
}

func (s *Seed) reveal() Reveal {
	return Reveal{
		ServerSecret:   s.ServerSecret,
		ServerSeedHash: HashSecret(s.ServerSecret),
		ClientValue:    s.ClientValue,
		LastCounter:    s.Counter,
	}
}

// querier is satisfied by *sql.DB and *sql.Tx; seed reads and the counter
// increment must run on the round's transaction.
type querier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

type Store struct {
	conn *sql.DB
}

func NewStore(conn *sql.DB) *Store {
	return &Store{conn: conn}
}

// GetOrCreateActive returns the active seed for (user, game), creating one
// lazily on first play. The partial unique index on active seeds makes a
// concurrent double-create lose the insert; the loser re-reads the winner's
// row.
func (st *Store) GetOrCreateActive(q querier, userID int64, gameSlug string) (*Seed, error) {
	const op = "fairness.Store.GetOrCreateActive"

	seed, err := st.findActive(q, userID, gameSlug)
	if err == nil {
		return seed, nil
	}
	if !errs.Is(err, errs.KindNotFound) {
		return nil, err
	}

	_, err = q.Exec(`
	INSERT INTO pf_seeds(user_id, game_slug, server_secret, client_value, counter, active, created_at)
	VALUES (?, ?, ?, ?, 0, 1, ?)
	`, userID, gameSlug, NewSecret(), DefaultClientValue, time.Now().Unix())
	if err != nil {
		// Unique violation: someone else created it between our read and
		// write. Fall through to the re-read either way.
		seed, ferr := st.findActive(q, userID, gameSlug)
		if ferr != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return seed, nil
	}

	return st.findActive(q, userID, gameSlug)
}

func (st *Store) findActive(q querier, userID int64, gameSlug string) (*Seed, error) {
	const op = "fairness.Store.findActive"

	row := q.QueryRow(`
	SELECT id, user_id, game_slug, server_secret, client_value, counter, active, created_at
	FROM pf_seeds
	WHERE user_id = ? AND game_slug = ? AND active = 1
	LIMIT 1
	`, userID, gameSlug)

	var (
		seed    Seed
		active  int
		created int64
	)
	err := row.Scan(&seed.ID, &seed.UserID, &seed.GameSlug, &seed.ServerSecret,
		&seed.ClientValue, &seed.Counter, &active, &created)
	if err == sql.ErrNoRows {
		return nil, errs.E(errs.KindNotFound, "no active seed")
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	seed.Active = active == 1
	seed.CreatedAt = time.Unix(created, 0)
	return &seed, nil
}

// IncrementCounter must run on the same transaction as the round it feeds; a
// rolled back round leaves the counter untouched.
func (st *Store) IncrementCounter(q querier, seedID int64) error {
	const op = "fairness.Store.IncrementCounter"

	res, err := q.Exec(`UPDATE pf_seeds SET counter = counter + 1 WHERE id = ?`, seedID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n != 1 {
		return fmt.Errorf("%s: seed %d not found", op, seedID)
	}
	return nil
}

// Rotate retires the active seed and creates a fresh one, returning the old
// secret in full. Creating-then-rotating in one call means rotate works even
// for a player who has never played.
func (st *Store) Rotate(ctx context.Context, userID int64, gameSlug string) (Reveal, PublicSeed, error) {
	var (
		rev Reveal
		pub PublicSeed
	)

	err := db.WithTx(ctx, st.conn, func(tx *sql.Tx) error {
		old, err := st.GetOrCreateActive(tx, userID, gameSlug)
		if err != nil {
			return err
		}

		if _, err = tx.Exec(`UPDATE pf_seeds SET active = 0 WHERE id = ?`, old.ID); err != nil {
			return fmt.Errorf("fairness.Store.Rotate: %w", err)
		}

		fresh, err := st.GetOrCreateActive(tx, userID, gameSlug)
		if err != nil {
			return err
		}

		rev = old.reveal()
		pub = fresh.Public()
		return nil
	})
	if err != nil {
		return Reveal{}, PublicSeed{}, err
	}

	return rev, pub, nil
}

// SetClientValue overwrites the client contribution on the active seed. The
// counter is deliberately left alone: the (secret, client, counter) triple
// stays unique because the counter keeps moving forward.
func (st *Store) SetClientValue(ctx context.Context, userID int64, gameSlug, value string) (PublicSeed, error) {
	if value == "" {
		return PublicSeed{}, errs.E(errs.KindInvalidInput, "client_value is required")
	}
	if len(value) > maxClientValueLen {
		return PublicSeed{}, errs.E(errs.KindInvalidInput, "client_value exceeds 100 characters")
	}

	var pub PublicSeed
	err := db.WithTx(ctx, st.conn, func(tx *sql.Tx) error {
		seed, err := st.GetOrCreateActive(tx, userID, gameSlug)
		if err != nil {
			return err
		}

		if _, err = tx.Exec(`UPDATE pf_seeds SET client_value = ? WHERE id = ?`, value, seed.ID); err != nil {
			return fmt.Errorf("fairness.Store.SetClientValue: %w", err)
		}

		seed.ClientValue = value
		pub = seed.Public()
		return nil
	})
	if err != nil {
		return PublicSeed{}, err
	}

	return pub, nil
}

// ActiveSeed returns the public view, creating the seed if needed.
func (st *Store) ActiveSeed(ctx context.Context, userID int64, gameSlug string) (PublicSeed, error) {
	var pub PublicSeed
	err := db.WithTx(ctx, st.conn, func(tx *sql.Tx) error {
		seed, err := st.GetOrCreateActive(tx, userID, gameSlug)
		if err != nil {
			return err
		}
		pub = seed.Public()
		return nil
	})
	if err != nil {
		return PublicSeed{}, err
	}
	return pub, nil
}
