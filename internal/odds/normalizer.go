// Package odds turns the raw provider feed into bettable line records
// and caches both odds and scores per sport.
package odds

import (
	"fmt"
	"strings"

	"github.com/parlayline/platform/internal/domain"
	"github.com/parlayline/platform/internal/provider"
)

// marketKeyMap translates provider market keys to internal market types.
var marketKeyMap = map[string]domain.MarketType{
	"h2h":     domain.MarketMoneyline,
	"spreads": domain.MarketSpreads,
	"totals":  domain.MarketTotals,
}

// Normalize flattens a raw odds feed into selectable leg templates. It is
// a pure transform: no I/O, the input is not mutated, and legs come out
// without results. Odds are taken from the first bookmaker carrying
// markets (consensus pricing); games without bookmaker data are dropped.
func Normalize(events []provider.Event) []domain.Leg {
	var legs []domain.Leg
	for _, ev := range events {
		bk, ok := firstBookmakerWithMarkets(ev)
		if !ok {
			continue
		}
		label := fmt.Sprintf("%s vs %s", ev.AwayTeam, ev.HomeTeam)

		for _, mkt := range bk.Markets {
			marketType, ok := marketKeyMap[mkt.Key]
			if !ok {
				// Only the three requested markets are bettable.
				continue
			}
			for _, outcome := range mkt.Outcomes {
				leg := domain.Leg{
					GameID:     ev.ID,
					Game:       label,
					SportKey:   ev.SportKey,
					MarketType: marketType,
					Team:       outcome.Name,
					Point:      outcome.Point,
					Odds:       normalizeAmerican(outcome.Price),
					StartTime:  ev.CommenceTime,
				}
				if marketType == domain.MarketTotals {
					// The totals "team" is a side of the line, not a
					// team name; the evaluator depends on this.
					leg.Team = totalsSide(outcome.Name)
				}
				legs = append(legs, leg)
			}
		}
	}
	return legs
}

func firstBookmakerWithMarkets(ev provider.Event) (provider.Bookmaker, bool) {
	for _, bk := range ev.Bookmakers {
		if len(bk.Markets) > 0 {
			return bk, true
		}
	}
	return provider.Bookmaker{}, false
}

// normalizeAmerican truncates the provider price to an integer American
// odd, coercing 0 to the minimum quotable price of +100.
func normalizeAmerican(price float64) int {
	odds := int(price)
	if odds == 0 {
		return 100
	}
	return odds
}

func totalsSide(name string) string {
	switch strings.ToLower(name) {
	case "over":
		return domain.TotalsOver
	case "under":
		return domain.TotalsUnder
	}
	return name
}

// ScoresFromFeed converts the raw scores feed into a finals snapshot
// keyed by game id, mapping each team's score entry by team label.
func ScoresFromFeed(events []provider.ScoreEvent) map[string]domain.FinalScore {
	games := make(map[string]domain.FinalScore, len(events))
	for _, ev := range events {
		scores := make(map[string]domain.TeamScore, len(ev.Scores))
		for _, s := range ev.Scores {
			scores[s.Name] = domain.TeamScore{Score: int(s.Score)}
		}
		games[ev.ID] = domain.FinalScore{
			GameID:    ev.ID,
			Completed: ev.Completed,
			HomeTeam:  ev.HomeTeam,
			AwayTeam:  ev.AwayTeam,
			Scores:    scores,
		}
	}
	return games
}
