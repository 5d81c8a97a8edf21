package casino

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"arguz-casino/internal/db"
	"arguz-casino/internal/errs"
	"arguz-casino/internal/event"
	"arguz-casino/internal/fairness"
	"arguz-casino/internal/ledger"
	"arguz-casino/internal/monitoring"
)

// Service orchestrates round resolution: seed, randomness, calibration,
// outcome, ledger and audit record, all inside one transaction per request.
type Service struct {
	conn    *sql.DB
	seeds   *fairness.Store
	configs *ConfigStore
	locks   *db.KeyedMutex
	bus     *event.Bus
	log     *zap.Logger
}

// NewService takes the shared per-user lock so rounds serialize against
// wallet credits and debits for the same user, not only against each other.
func NewService(conn *sql.DB, seeds *fairness.Store, configs *ConfigStore, locks *db.KeyedMutex, bus *event.Bus, log *zap.Logger) *Service {
	return &Service{
		conn:    conn,
		seeds:   seeds,
		configs: configs,
		locks:   locks,
		bus:     bus,
		log:     log,
	}
}

// Play resolves one round. The user's keyed lock plus the transaction
// guarantee that same-user rounds are strictly serialized (counter values are
// used exactly once), and a failure at any step leaves no trace: no counter
// increment, no movements, no round row.
func (s *Service) Play(ctx context.Context, userID int64, gameSlug string, in PlayInput) (*Receipt, error) {
	game, ok := GetGame(gameSlug)
	if !ok {
		return nil, errs.E(errs.KindNotFound, "unknown game")
	}

	cfg, err := s.configs.Get(gameSlug)
	if err != nil {
		return nil, err
	}
	if !cfg.Active {
		return nil, errs.E(errs.KindGameUnavailable, "game temporarily unavailable")
	}

	stake, err := parseStake(in.Stake, cfg)
	if err != nil {
		return nil, err
	}
	if err := game.ValidateInput(in); err != nil {
		return nil, err
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	var receipt *Receipt
	err = db.WithTx(ctx, s.conn, func(tx *sql.Tx) error {
		if err := ledger.EnsureBalance(tx, userID); err != nil {
			return err
		}

		seed, err := s.seeds.GetOrCreateActive(tx, userID, gameSlug)
		if err != nil {
			return err
		}

		r := fairness.Fraction(seed.ServerSecret, seed.ClientValue, seed.Counter)

		if err := s.seeds.IncrementCounter(tx, seed.ID); err != nil {
			return err
		}

		res := game.Resolve(r, cfg, in)

		payout := decimal.Zero
		if res.Multiplier > 0 {
			payout = stake.Mul(decimal.NewFromFloat(res.Multiplier))
		}
		houseProfit := stake.Sub(payout)

		snap, err := ledger.DebitAndCredit(tx, userID, stake, payout,
			describeStake(gameSlug, in), describeCredit(gameSlug, res))
		if err != nil {
			return err
		}

		round := &Round{
			UUID:        uuid.New().String(),
			UserID:      userID,
			GameSlug:    gameSlug,
			Stake:       stake,
			Payout:      payout,
			HouseProfit: houseProfit,
			Input:       buildInputRecord(gameSlug, in, res),
			Outcome:     buildOutcomeRecord(res, payout, r),
			Fairness: Snapshot{
				Game:           gameSlug,
				Version:        snapshotVersion,
				ServerSeedHash: fairness.HashSecret(seed.ServerSecret),
				ClientValue:    seed.ClientValue,
				CounterUsed:    seed.Counter,
				Fraction:       r,
			},
			CreatedAt: time.Now(),
		}
		if err := insertRound(tx, round); err != nil {
			return err
		}

		receipt = &Receipt{
			RoundID:       round.ID,
			RoundUUID:     round.UUID,
			Game:          gameSlug,
			Result:        res.Display,
			Stake:         stake,
			Payout:        payout,
			BalanceBefore: snap.Before,
			BalanceAfter:  snap.After,
			Fairness:      round.Fairness,
			CreatedAt:     round.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(userID, gameSlug, receipt)
	return receipt, nil
}

func (s *Service) afterCommit(userID int64, gameSlug string, rec *Receipt) {
	result := "lose"
	if rec.Payout.IsPositive() {
		result = "win"
	}
	monitoring.RoundsTotal.WithLabelValues(gameSlug, result).Inc()
	monitoring.StakedTotal.WithLabelValues(gameSlug).Add(rec.Stake.InexactFloat64())
	monitoring.PayoutTotal.WithLabelValues(gameSlug).Add(rec.Payout.InexactFloat64())

	s.bus.Publish(event.EventRoundResolved, &RoundEvent{
		RoundID: rec.RoundID,
		UserID:  userID,
		Game:    gameSlug,
		Stake:   rec.Stake,
		Payout:  rec.Payout,
		Win:     rec.Payout.IsPositive(),
	})

	s.log.Info("round resolved",
		zap.Int64("round_id", rec.RoundID),
		zap.String("game", gameSlug),
		zap.Int64("user_id", userID),
		zap.String("stake", rec.Stake.String()),
		zap.String("payout", rec.Payout.String()))
}

// ListMyRounds returns the caller's recent rounds with fairness snapshots.
// The raw server secret never appears here; it is only released by rotation.
func (s *Service) ListMyRounds(userID int64, gameSlug string) ([]Round, error) {
	if _, ok := GetGame(gameSlug); !ok {
		return nil, errs.E(errs.KindNotFound, "unknown game")
	}
	return listRounds(s.conn, userID, gameSlug)
}

func parseStake(v float64, cfg GameConfig) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return decimal.Zero, errs.E(errs.KindInvalidStake, "invalid stake")
	}

	stake := decimal.NewFromFloat(v)
	if stake.LessThan(cfg.MinStake) {
		return decimal.Zero, errs.E(errs.KindInvalidStake, "stake below minimum: "+cfg.MinStake.String())
	}
	if stake.GreaterThan(cfg.MaxStake) {
		return decimal.Zero, errs.E(errs.KindInvalidStake, "stake above maximum: "+cfg.MaxStake.String())
	}
	return stake, nil
}

func buildInputRecord(gameSlug string, in PlayInput, res Resolution) map[string]interface{} {
	rec := map[string]interface{}{"stake": in.Stake}
	switch gameSlug {
	case GameCoinflip:
		rec["bet"] = in.Bet
	case GameDice:
		rec["target"] = in.Target
	case GameHilo:
		rec["choice"] = in.Choice
	}
	for k, v := range res.Meta {
		rec[k] = v
	}
	return rec
}

func buildOutcomeRecord(res Resolution, payout decimal.Decimal, r float64) map[string]interface{} {
	rec := map[string]interface{}{
		"payout": payout.InexactFloat64(),
		"r":      r,
	}
	for k, v := range res.Display {
		rec[k] = v
	}
	return rec
}
