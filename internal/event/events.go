package event

const (
	EventRoundResolved = "casino.round_resolved"
	EventSeedRotated   = "casino.seed_rotated"
	EventWalletCredit  = "wallet.credit"
	EventWalletDebit   = "wallet.debit"
)
