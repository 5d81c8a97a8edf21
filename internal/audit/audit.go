package audit

import (
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// Service is a best-effort side channel. A failed audit write must never fail
// the operation being audited; it is logged at debug and dropped.
type Service struct {
	db  *sql.DB
	log *zap.Logger
}

func New(db *sql.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

func (s *Service) Log(userID int64, action, metadata string) {
	_, err := s.db.Exec(`
	INSERT INTO audit_logs(user_id, action, metadata, created_at)
	VALUES (?, ?, ?, ?)
	`, userID, action, metadata, time.Now().Unix())

	if err != nil {
		s.log.Debug("audit write dropped",
			zap.Int64("user_id", userID),
			zap.String("action", action),
			zap.Error(err))
	}
}
