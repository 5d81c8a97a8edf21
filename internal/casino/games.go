package casino

import (
	"fmt"

	"arguz-casino/internal/errs"
	"arguz-casino/internal/rtp"
)

const (
	GameCoinflip     = "coinflip"
	GameDice         = "dice"
	GameHilo         = "hilo"
	GameScratch      = "scratch"
	GameSlotsCommon  = "slots_common"
	GameSlotsPremium = "slots_premium"
)

// PlayInput carries the union of game-specific request fields; each game
// validates only what it reads.
type PlayInput struct {
	Stake  float64 `json:"stake" validate:"required,gt=0"`
	Bet    string  `json:"bet,omitempty"`
	Choice string  `json:"choice,omitempty"`
	Target int     `json:"target,omitempty"`
}

// Resolution is the pure outcome of one round: no money has moved yet.
// Display feeds the receipt and the outcome record; Meta lands in the round's
// input record so a verifier sees the calibrated parameters that were used.
type Resolution struct {
	Win        bool
	Multiplier float64
	Display    map[string]interface{}
	Meta       map[string]interface{}
}

// Game maps a random fraction plus calibrated config onto a concrete outcome.
// Resolvers must be deterministic in r: re-running a round with the revealed
// seed reproduces it field for field.
type Game interface {
	Slug() string
	ValidateInput(in PlayInput) error
	Resolve(r float64, cfg GameConfig, in PlayInput) Resolution
}

var games = map[string]Game{
	GameCoinflip:     coinflipGame{},
	GameDice:         diceGame{},
	GameHilo:         hiloGame{},
	GameScratch:      tableGame{slug: GameScratch},
	GameSlotsCommon:  tableGame{slug: GameSlotsCommon},
	GameSlotsPremium: tableGame{slug: GameSlotsPremium},
}

func GetGame(slug string) (Game, bool) {
	g, ok := games[slug]
	return g, ok
}

/* ------------------------------ coinflip ------------------------------ */

type coinflipGame struct{}

func (coinflipGame) Slug() string { return GameCoinflip }

func (coinflipGame) ValidateInput(in PlayInput) error {
	if in.Bet != "heads" && in.Bet != "tails" {
		return errs.E(errs.KindInvalidInput, "bet must be heads or tails")
	}
	return nil
}

func (coinflipGame) Resolve(r float64, cfg GameConfig, in PlayInput) Resolution {
	mult := cfg.Payout.Mult
	pWin := rtp.WinProbability(cfg.RTPTarget, mult)
	win := r < pWin

	// The shown side is derived from the win decision, not drawn separately,
	// so presentation always agrees with the payout.
	flip := in.Bet
	if !win {
		if in.Bet == "heads" {
			flip = "tails"
		} else {
			flip = "heads"
		}
	}

	res := Resolution{
		Win:     win,
		Display: map[string]interface{}{"result": flip},
		Meta:    map[string]interface{}{"mult": mult, "p_win": pWin},
	}
	if win {
		res.Multiplier = mult
	}
	return res
}

/* -------------------------------- dice -------------------------------- */

type diceGame struct{}

func (diceGame) Slug() string { return GameDice }

func (diceGame) ValidateInput(in PlayInput) error {
	if in.Target < 1 || in.Target > 6 {
		return errs.E(errs.KindInvalidInput, "target must be 1..6")
	}
	return nil
}

func (diceGame) Resolve(r float64, cfg GameConfig, in PlayInput) Resolution {
	mult := cfg.Payout.Mult
	pWin := rtp.WinProbability(cfg.RTPTarget, mult)
	win := r < pWin

	roll := in.Target
	if !win {
		roll = nonTargetFace(r, in.Target)
	}

	res := Resolution{
		Win:     win,
		Display: map[string]interface{}{"roll": roll},
		Meta:    map[string]interface{}{"mult": mult, "p_win": pWin},
	}
	if win {
		res.Multiplier = mult
	}
	return res
}

// nonTargetFace picks the losing face from the same fraction that decided the
// loss. Reusing r keeps the whole round a function of one draw, which is what
// the published verification procedure recomputes.
func nonTargetFace(r float64, target int) int {
	idx := int(r * 5)

	faces := make([]int, 0, 5)
	for f := 1; f <= 6; f++ {
		if f != target {
			faces = append(faces, f)
		}
	}

	if idx < 0 || idx >= len(faces) {
		idx = 0
	}
	return faces[idx]
}

/* -------------------------------- hilo -------------------------------- */

type hiloGame struct{}

func (hiloGame) Slug() string { return GameHilo }

func (hiloGame) ValidateInput(in PlayInput) error {
	if in.Choice != "high" && in.Choice != "low" {
		return errs.E(errs.KindInvalidInput, "choice must be high or low")
	}
	return nil
}

func (hiloGame) Resolve(r float64, cfg GameConfig, in PlayInput) Resolution {
	outcome := "low"
	if r > 0.5 {
		outcome = "high"
	}
	win := outcome == in.Choice

	res := Resolution{
		Win:     win,
		Display: map[string]interface{}{"outcome": outcome},
		Meta:    map[string]interface{}{"mult": cfg.Payout.Mult},
	}
	if win {
		res.Multiplier = cfg.Payout.Mult
	}
	return res
}

/* --------------------------- weighted tables --------------------------- */

type tableGame struct {
	slug string
}

func (g tableGame) Slug() string { return g.slug }

func (tableGame) ValidateInput(PlayInput) error { return nil }

func (g tableGame) Resolve(r float64, cfg GameConfig, _ PlayInput) Resolution {
	table := rtp.RetuneTable(cfg.Payout.Table, cfg.RTPTarget)
	hit := sampleTable(table, r)

	return Resolution{
		Win:        hit.Mult > 0,
		Multiplier: hit.Mult,
		Display:    map[string]interface{}{"mult": hit.Mult},
		Meta:       map[string]interface{}{"rtp_target": cfg.RTPTarget, "paytable_used": table},
	}
}

// sampleTable draws one entry by cumulative weight. On an exact boundary the
// earliest entry wins; empty tables fall back to a lose-only entry so callers
// never see an undefined draw.
func sampleTable(table []rtp.Entry, r float64) rtp.Entry {
	if len(table) == 0 {
		return rtp.Entry{Mult: 0, Weight: 1}
	}

	pick := r * float64(rtp.TotalWeight(table))

	acc := 0.0
	for _, e := range table {
		acc += float64(e.Weight)
		if pick <= acc {
			return e
		}
	}
	return table[0]
}

// Slugs lists every playable game, for route registration and diagnostics.
func Slugs() []string {
	return []string{GameCoinflip, GameDice, GameHilo, GameScratch, GameSlotsCommon, GameSlotsPremium}
}

// describeStake renders ledger descriptions like the panel expects.
func describeStake(slug string, in PlayInput) string {
	switch slug {
	case GameCoinflip:
		return fmt.Sprintf("Coinflip bet on %s", in.Bet)
	case GameDice:
		return fmt.Sprintf("Dice bet on %d", in.Target)
	case GameHilo:
		return fmt.Sprintf("HiLo bet on %s", in.Choice)
	default:
		return fmt.Sprintf("%s bet", slug)
	}
}

func describeCredit(slug string, res Resolution) string {
	switch slug {
	case GameCoinflip:
		return fmt.Sprintf("Coinflip win (%v)", res.Display["result"])
	case GameDice:
		return fmt.Sprintf("Dice win (roll %v)", res.Display["roll"])
	case GameHilo:
		return fmt.Sprintf("HiLo win (%v)", res.Display["outcome"])
	default:
		return fmt.Sprintf("%s prize x%g", slug, res.Multiplier)
	}
}
