// Package settlement decides the outcome of wager legs against final
// scores and rolls leg results up into slip-level settlement.
package settlement

import (
	"fmt"

	"github.com/parlayline/platform/internal/domain"
)

// EvaluateLeg decides win or lose for a single leg against a completed
// game's final score. Pushes are not supported: a tied moneyline or a
// score landing exactly on the line loses.
func EvaluateLeg(leg domain.Leg, final domain.FinalScore) (domain.LegResult, error) {
	if !final.Completed {
		return "", domain.ErrValidation(fmt.Sprintf("game %s is not completed", final.GameID))
	}

	homeScore := final.ScoreFor(final.HomeTeam)
	awayScore := final.ScoreFor(final.AwayTeam)

	switch leg.MarketType {
	case domain.MarketMoneyline:
		if homeScore == awayScore {
			return domain.LegLose, nil
		}
		winner := final.AwayTeam
		if homeScore > awayScore {
			winner = final.HomeTeam
		}
		return resultOf(leg.Team == winner), nil

	case domain.MarketSpreads:
		if leg.Point == nil {
			return "", domain.ErrValidation("spreads leg is missing its point")
		}
		teamScore, oppScore := homeScore, awayScore
		if leg.Team != final.HomeTeam {
			teamScore, oppScore = awayScore, homeScore
		}
		return resultOf(float64(teamScore)+*leg.Point > float64(oppScore)), nil

	case domain.MarketTotals:
		if leg.Point == nil {
			return "", domain.ErrValidation("totals leg is missing its point")
		}
		total := float64(homeScore + awayScore)
		switch leg.Team {
		case domain.TotalsOver:
			return resultOf(total > *leg.Point), nil
		case domain.TotalsUnder:
			return resultOf(total < *leg.Point), nil
		default:
			return "", domain.ErrValidation(fmt.Sprintf("totals leg side must be Over or Under, got %q", leg.Team))
		}
	}

	return "", domain.ErrUnknownMarket(leg.MarketType)
}

func resultOf(won bool) domain.LegResult {
	if won {
		return domain.LegWin
	}
	return domain.LegLose
}
