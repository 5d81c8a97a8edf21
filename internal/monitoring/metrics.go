package monitoring

import "github.com/prometheus/client_golang/prometheus"

var (
	RoundsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "casino_rounds_total",
			Help: "Resolved casino rounds",
		},
		[]string{"game", "result"},
	)

	StakedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "casino_staked_total",
			Help: "Total value staked",
		},
		[]string{"game"},
	)

	PayoutTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "casino_payout_total",
			Help: "Total value paid out",
		},
		[]string{"game"},
	)

	RTPMeasured = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "casino_rtp_measured",
			Help: "Observed payout over stake ratio since boot",
		},
		[]string{"game"},
	)

	MovementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_movements_total",
			Help: "Ledger movements written",
		},
		[]string{"kind"},
	)
)

func Init() {
	prometheus.MustRegister(RoundsTotal)
	prometheus.MustRegister(StakedTotal)
	prometheus.MustRegister(PayoutTotal)
	prometheus.MustRegister(RTPMeasured)
	prometheus.MustRegister(MovementsTotal)
}
