package casino

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

type LeaderboardEntry struct {
	UserID int64           `json:"user_id"`
	Profit decimal.Decimal `json:"profit"`
}

// Leaderboard tracks per-player net profit since boot. It is a display
// feature fed from round events; the ledger stays the source of truth.
type Leaderboard struct {
	data map[int64]decimal.Decimal
	mu   sync.Mutex
}

func NewLeaderboard() *Leaderboard {
	return &Leaderboard{
		data: make(map[int64]decimal.Decimal),
	}
}

func (l *Leaderboard) Record(userID int64, stake, payout decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.data[userID] = l.data[userID].Add(payout.Sub(stake))
}

func (l *Leaderboard) Top(n int) []LeaderboardEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := make([]LeaderboardEntry, 0, len(l.data))
	for uid, profit := range l.data {
		entries = append(entries, LeaderboardEntry{UserID: uid, Profit: profit})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Profit.GreaterThan(entries[j].Profit)
	})

	if len(entries) > n {
		return entries[:n]
	}
	return entries
}
