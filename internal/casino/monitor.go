package casino

import (
	"sync"

	"github.com/shopspring/decimal"

	"arguz-casino/internal/monitoring"
)

// RTPMonitor keeps running stake/payout totals per game and drives the
// measured-RTP gauge. Drift from a game's configured target is the first sign
// of a broken paytable or calibration bug.
type RTPMonitor struct {
	mu     sync.Mutex
	stake  map[string]decimal.Decimal
	payout map[string]decimal.Decimal
}

func NewRTPMonitor() *RTPMonitor {
	return &RTPMonitor{
		stake:  make(map[string]decimal.Decimal),
		payout: make(map[string]decimal.Decimal),
	}
}

func (m *RTPMonitor) Record(game string, stake, payout decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stake[game] = m.stake[game].Add(stake)
	m.payout[game] = m.payout[game].Add(payout)

	if m.stake[game].IsPositive() {
		ratio, _ := m.payout[game].Div(m.stake[game]).Float64()
		monitoring.RTPMeasured.WithLabelValues(game).Set(ratio)
	}
}

// Ratio reports the observed payout/stake ratio for a game since boot.
func (m *RTPMonitor) Ratio(game string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.stake[game].IsPositive() {
		return 0
	}
	ratio, _ := m.payout[game].Div(m.stake[game]).Float64()
	return ratio
}
