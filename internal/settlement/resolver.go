package settlement

import (
	"github.com/parlayline/platform/internal/domain"
)

// SkippedLeg records a leg that could not be evaluated: malformed input
// or a data-integrity problem such as an unrecognized market.
type SkippedLeg struct {
	Index  int
	Reason string
}

// Resolution describes the outcome of one ResolveSlip pass.
type Resolution struct {
	// Slip is a copy of the input with leg results attached. Its status
	// changes only when FullyResolved is true.
	Slip          domain.Slip
	FullyResolved bool
	Wins          int
	Losses        int
	Skipped       []SkippedLeg
}

// ResolveSlip evaluates every leg of a slip against a finals snapshot.
// Settlement is all-or-nothing at the parlay level: leg results are
// attached as games complete, but the slip status moves off pending only
// when every single leg holds a terminal result. Legs without a gameId
// and legs whose evaluation errors are skipped — reported, never
// fabricated — and keep the slip pending. The input slip is not mutated.
func ResolveSlip(slip domain.Slip, finals map[string]domain.FinalScore) Resolution {
	out := slip
	out.Bets = make([]domain.Leg, len(slip.Bets))
	copy(out.Bets, slip.Bets)

	res := Resolution{FullyResolved: len(out.Bets) > 0}
	allWon := true

	for i := range out.Bets {
		leg := &out.Bets[i]

		if leg.GameID == "" {
			res.FullyResolved = false
			res.Skipped = append(res.Skipped, SkippedLeg{Index: i, Reason: "missing gameId"})
			continue
		}

		// Results transition once and are never reverted; a second pass
		// over a settled leg keeps the recorded outcome.
		if leg.Settled() {
			if leg.Result == domain.LegWin {
				res.Wins++
			} else {
				res.Losses++
				allWon = false
			}
			continue
		}

		final, ok := finals[leg.GameID]
		if !ok || !final.Completed {
			res.FullyResolved = false
			continue
		}

		result, err := EvaluateLeg(*leg, final)
		if err != nil {
			res.FullyResolved = false
			res.Skipped = append(res.Skipped, SkippedLeg{Index: i, Reason: err.Error()})
			continue
		}

		leg.Result = result
		if result == domain.LegWin {
			res.Wins++
		} else {
			res.Losses++
			allWon = false
		}
	}

	if res.FullyResolved {
		if allWon {
			out.Status = domain.SlipWin
		} else {
			out.Status = domain.SlipLose
		}
	}

	res.Slip = out
	return res
}
