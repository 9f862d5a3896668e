package domain

import "fmt"

// ValidateLeg checks a leg at submission time. Odds are American prices:
// nonzero, with a minimum magnitude of 100 — sportsbooks never quote
// between -99 and +99.
func ValidateLeg(l Leg) error {
	if l.GameID == "" {
		return ErrValidation("leg gameId is required")
	}
	if !KnownMarket(l.MarketType) {
		return ErrUnknownMarket(l.MarketType)
	}
	if l.Team == "" {
		return ErrValidation("leg team is required")
	}
	if l.Odds == 0 {
		return ErrValidation("leg odds must be nonzero")
	}
	if l.Odds > -100 && l.Odds < 100 {
		return ErrValidation(fmt.Sprintf("american odds magnitude must be at least 100, got %d", l.Odds))
	}

	switch l.MarketType {
	case MarketMoneyline:
		if l.Point != nil {
			return ErrValidation("moneyline leg must not carry a point")
		}
	case MarketSpreads:
		if l.Point == nil {
			return ErrValidation("spreads leg requires a point")
		}
	case MarketTotals:
		if l.Point == nil {
			return ErrValidation("totals leg requires a point")
		}
		if l.Team != TotalsOver && l.Team != TotalsUnder {
			return ErrValidation(fmt.Sprintf("totals leg side must be %s or %s, got %q", TotalsOver, TotalsUnder, l.Team))
		}
	}

	return nil
}

// ValidateSlip checks a slip at submission time.
func ValidateSlip(s Slip) error {
	if s.UserID == "" {
		return ErrValidation("slip userId is required")
	}
	if s.WagerAmount <= 0 {
		return ErrValidation("wager amount must be positive")
	}
	if len(s.Bets) == 0 {
		return ErrValidation("slip must contain at least one leg")
	}
	for i, leg := range s.Bets {
		if err := ValidateLeg(leg); err != nil {
			return ErrValidation(fmt.Sprintf("leg %d: %v", i, err))
		}
	}
	return nil
}
