package domain

import (
	"time"

	"github.com/google/uuid"
)

// MarketType identifies the betting market a leg was taken from.
type MarketType string

const (
	MarketMoneyline MarketType = "moneyline"
	MarketSpreads   MarketType = "spreads"
	MarketTotals    MarketType = "totals"
)

// KnownMarket reports whether mt is one of the supported market types.
func KnownMarket(mt MarketType) bool {
	switch mt {
	case MarketMoneyline, MarketSpreads, MarketTotals:
		return true
	}
	return false
}

// Totals legs select a side of the line rather than a team.
const (
	TotalsOver  = "Over"
	TotalsUnder = "Under"
)

// LegResult is the settled outcome of a single leg.
type LegResult string

const (
	LegWin  LegResult = "win"
	LegLose LegResult = "lose"
)

// SlipStatus is the aggregate status of a parlay slip.
type SlipStatus string

const (
	SlipPending SlipStatus = "pending"
	SlipWin     SlipStatus = "win"
	SlipLose    SlipStatus = "lose"
)

// KnownSlipStatus reports whether s is a valid slip status value.
func KnownSlipStatus(s SlipStatus) bool {
	switch s {
	case SlipPending, SlipWin, SlipLose:
		return true
	}
	return false
}

// Leg is one bettable selection inside a parlay slip. Legs are immutable
// after submission except for Result, which the settlement batch sets
// exactly once.
type Leg struct {
	GameID     string     `json:"gameId"`
	Game       string     `json:"game"` // "<away> vs <home>"
	SportKey   string     `json:"sport"`
	MarketType MarketType `json:"marketType"`
	Team       string     `json:"team"`  // team label; Over/Under for totals
	Point      *float64   `json:"point"` // spread or total line, nil for moneyline
	Odds       int        `json:"odds"`  // American price, |odds| >= 100
	StartTime  time.Time  `json:"startTime"`
	Result     LegResult  `json:"result,omitempty"`
}

// Settled reports whether the leg has received a terminal result.
func (l Leg) Settled() bool {
	return l.Result == LegWin || l.Result == LegLose
}

// Slip is a parlay: one or more legs wagered together as a single
// all-or-nothing bet.
type Slip struct {
	ID          uuid.UUID  `json:"id"`
	UserID      string     `json:"userId"`
	UserName    string     `json:"userName"`
	WagerAmount float64    `json:"wagerAmount"`
	Bets        []Leg      `json:"bets"`
	Status      SlipStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// TeamScore is one team's final score entry.
type TeamScore struct {
	Score int `json:"score"`
}

// FinalScore is the completed-game record used to settle legs.
type FinalScore struct {
	GameID    string               `json:"id"`
	Completed bool                 `json:"completed"`
	HomeTeam  string               `json:"home_team"`
	AwayTeam  string               `json:"away_team"`
	Scores    map[string]TeamScore `json:"scores"`
}

// ScoreFor returns the final score for the named team. A team missing
// from the provider feed scores 0; the feed does not distinguish an
// omitted entry from an actual zero.
func (f FinalScore) ScoreFor(team string) int {
	return f.Scores[team].Score
}
