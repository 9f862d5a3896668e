// Package parlay implements combined-odds and payout math for parlay
// slips. All odds enter as American prices and are converted to decimal
// multipliers before combining.
package parlay

import (
	"math"

	"github.com/parlayline/platform/internal/domain"
)

// DecimalOdds converts an American price to its decimal multiplier.
// +150 pays 2.5x the stake, -150 pays about 1.667x. Zero is not a valid
// American price.
func DecimalOdds(american int) (float64, error) {
	if american == 0 {
		return 0, domain.ErrValidation("american odds must be nonzero")
	}
	if american > 0 {
		return float64(american)/100 + 1, nil
	}
	return 100/math.Abs(float64(american)) + 1, nil
}

// CombinedDecimalOdds multiplies the decimal odds of every leg. An empty
// slice returns 1.0, the multiplicative identity — a parlay of nothing
// pays back exactly the stake.
func CombinedDecimalOdds(legs []domain.Leg) (float64, error) {
	combined := 1.0
	for _, leg := range legs {
		decimal, err := DecimalOdds(leg.Odds)
		if err != nil {
			return 0, err
		}
		combined *= decimal
	}
	return combined, nil
}

// PotentialProfit is the winnings excluding the returned stake. This is
// the "potential winnings" figure shown to the user.
func PotentialProfit(wager, combinedOdds float64) float64 {
	return wager * (combinedOdds - 1)
}

// TotalPayout is stake plus profit — the amount credited when the slip
// settles as a win.
func TotalPayout(wager, combinedOdds float64) float64 {
	return wager * combinedOdds
}

// Preview summarizes a prospective slip for display.
type Preview struct {
	LegCount        int     `json:"leg_count"`
	WagerAmount     float64 `json:"wager_amount"`
	CombinedOdds    float64 `json:"combined_odds"`
	PotentialProfit float64 `json:"potential_profit"`
	TotalPayout     float64 `json:"total_payout"`
}

// NewPreview computes the payout figures for a prospective slip.
func NewPreview(legs []domain.Leg, wager float64) (*Preview, error) {
	if wager <= 0 {
		return nil, domain.ErrValidation("wager amount must be positive")
	}
	combined, err := CombinedDecimalOdds(legs)
	if err != nil {
		return nil, err
	}
	return &Preview{
		LegCount:        len(legs),
		WagerAmount:     wager,
		CombinedOdds:    combined,
		PotentialProfit: PotentialProfit(wager, combined),
		TotalPayout:     TotalPayout(wager, combined),
	}, nil
}
