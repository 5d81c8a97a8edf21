package rtp

import "math"

// Entry is one paytable row: pay Mult times the stake with relative Weight.
type Entry struct {
	Mult   float64 `json:"mult"`
	Weight int     `json:"w"`
}

const (
	maxTarget   = 0.9999
	maxScale    = 1e6
	renormTotal = 1000
	minDenom    = 1e-12
)

// WinProbability converts a target RTP into a win probability for a game that
// pays a fixed multiplier: EV = p*mult = target, so p = target/mult, clamped
// to [0,1]. A broken multiplier means the game never pays.
func WinProbability(rtpTarget, mult float64) float64 {
	if math.IsNaN(rtpTarget) || math.IsInf(rtpTarget, 0) || rtpTarget < 0 {
		return 0
	}
	if math.IsNaN(mult) || math.IsInf(mult, 0) || mult <= 0 {
		return 0
	}

	p := rtpTarget / mult
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// RetuneTable rescales the winning rows of a paytable so its expected value
// approaches the target RTP. Solving for a uniform scale k on positive-mult
// weights:
//
//	EV' = (k*S) / (k*Wplus + W0) = target
//	k   = (target*W0) / (S - target*Wplus)
//
// where S = sum(w*mult), Wplus = sum(w) over mult>0 rows and W0 is the losing
// mass. The input table is never mutated; the retuned copy lives only for one
// round's resolution.
func RetuneTable(table []Entry, rtpTarget float64) []Entry {
	if len(table) == 0 {
		return nil
	}

	tuned := make([]Entry, len(table))
	weights := make([]float64, len(table))
	for i, e := range table {
		tuned[i] = e
		if e.Weight > 0 {
			weights[i] = float64(e.Weight)
		}
	}

	var w0, wplus, s float64
	for i, e := range tuned {
		if e.Mult <= 0 {
			w0 += weights[i]
		} else {
			wplus += weights[i]
			s += weights[i] * e.Mult
		}
	}

	// Degenerate table: nothing can ever pay. Correct to a minimal entry so
	// sampling stays well defined.
	if wplus <= 0 {
		tuned[0] = Entry{Mult: 1, Weight: 1}
		weights[0] = 1
		wplus, s = 1, 1
	}

	target := rtpTarget
	if math.IsNaN(target) || target < 0 {
		target = 0
	}
	if target > maxTarget {
		target = maxTarget
	}

	k := 1.0
	if denom := s - target*wplus; denom > minDenom {
		k = (target * w0) / denom
	}
	if math.IsNaN(k) || math.IsInf(k, 0) || k <= 0 {
		k = 1
	}
	if k > maxScale {
		k = maxScale
	}

	var total float64
	for i, e := range tuned {
		if e.Mult > 0 {
			weights[i] *= k
		}
		total += weights[i]
	}
	if total <= 0 {
		total = 1
	}

	// Renormalize to small integer weights for stable sampling.
	for i := range tuned {
		w := int(math.Round(weights[i] / total * renormTotal))
		if w < 1 {
			w = 1
		}
		tuned[i].Weight = w
	}

	return tuned
}

// TotalWeight sums a table's weights.
func TotalWeight(table []Entry) int {
	total := 0
	for _, e := range table {
		total += e.Weight
	}
	return total
}

// ExpectedValue is the EV of one draw from the table, in stake multiples.
func ExpectedValue(table []Entry) float64 {
	total := float64(TotalWeight(table))
	if total <= 0 {
		return 0
	}

	var ev float64
	for _, e := range table {
		ev += float64(e.Weight) / total * e.Mult
	}
	return ev
}
