package wallet

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"arguz-casino/internal/audit"
	"arguz-casino/internal/db"
	"arguz-casino/internal/errs"
	"arguz-casino/internal/event"
	"arguz-casino/internal/ledger"
)

// Service is the balance surface outside of rounds: the player's own view and
// the operator's manual credit/debit. Round money movement lives in the
// casino service; both paths go through the same ledger.
type Service struct {
	conn  *sql.DB
	locks *db.KeyedMutex
	bus   *event.Bus
	audit *audit.Service
	log   *zap.Logger
}

func New(conn *sql.DB, locks *db.KeyedMutex, bus *event.Bus, auditor *audit.Service, log *zap.Logger) *Service {
	return &Service{conn: conn, locks: locks, bus: bus, audit: auditor, log: log}
}

func (s *Service) Balance(userID int64) (ledger.Balance, error) {
	return ledger.GetBalance(s.conn, userID)
}

func (s *Service) Movements(userID int64, limit int) ([]ledger.Movement, error) {
	return ledger.ListMovements(s.conn, userID, limit)
}

// Credit funds a balance on behalf of an external processor or an operator.
func (s *Service) Credit(ctx context.Context, userID int64, amount decimal.Decimal, desc string) (ledger.Snapshot, error) {
	if userID <= 0 {
		return ledger.Snapshot{}, errs.E(errs.KindInvalidInput, "user_id is required")
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	var snap ledger.Snapshot
	err := db.WithTx(ctx, s.conn, func(tx *sql.Tx) error {
		var err error
		snap, err = ledger.Credit(tx, userID, amount, ledger.KindDeposit, desc)
		return err
	})
	if err != nil {
		return ledger.Snapshot{}, err
	}

	s.audit.Log(userID, "wallet_credit", amount.String())
	s.bus.Publish(event.EventWalletCredit, userID)
	s.log.Info("wallet credited",
		zap.Int64("user_id", userID), zap.String("amount", amount.String()))
	return snap, nil
}

// Debit removes funds manually; it refuses to take a balance negative.
func (s *Service) Debit(ctx context.Context, userID int64, amount decimal.Decimal, desc string) (ledger.Snapshot, error) {
	if userID <= 0 {
		return ledger.Snapshot{}, errs.E(errs.KindInvalidInput, "user_id is required")
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	var snap ledger.Snapshot
	err := db.WithTx(ctx, s.conn, func(tx *sql.Tx) error {
		var err error
		snap, err = ledger.Debit(tx, userID, amount, ledger.KindAdjust, desc)
		return err
	})
	if err != nil {
		return ledger.Snapshot{}, err
	}

	s.audit.Log(userID, "wallet_debit", amount.String())
	s.bus.Publish(event.EventWalletDebit, userID)
	s.log.Info("wallet debited",
		zap.Int64("user_id", userID), zap.String("amount", amount.String()))
	return snap, nil
}
