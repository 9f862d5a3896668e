package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func validLeg() Leg {
	return Leg{
		GameID:     "g1",
		Game:       "Celtics vs Lakers",
		SportKey:   "basketball_nba",
		MarketType: MarketMoneyline,
		Team:       "Lakers",
		Odds:       -150,
	}
}

// --- Validator Tests ---

func TestValidateLeg(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Leg)
		wantErr bool
		errMsg  string
	}{
		{"valid moneyline", func(l *Leg) {}, false, ""},
		{"valid spreads", func(l *Leg) { l.MarketType = MarketSpreads; l.Point = ptr(-3.5) }, false, ""},
		{"valid totals over", func(l *Leg) { l.MarketType = MarketTotals; l.Team = TotalsOver; l.Point = ptr(210.5) }, false, ""},
		{"valid totals under", func(l *Leg) { l.MarketType = MarketTotals; l.Team = TotalsUnder; l.Point = ptr(210.5) }, false, ""},
		{"missing game id", func(l *Leg) { l.GameID = "" }, true, "gameId is required"},
		{"missing team", func(l *Leg) { l.Team = "" }, true, "team is required"},
		{"unknown market", func(l *Leg) { l.MarketType = "firstbasket" }, true, "unrecognized market type"},
		{"zero odds", func(l *Leg) { l.Odds = 0 }, true, "nonzero"},
		{"positive odds below 100", func(l *Leg) { l.Odds = 99 }, true, "magnitude"},
		{"negative odds above -100", func(l *Leg) { l.Odds = -50 }, true, "magnitude"},
		{"exactly 100", func(l *Leg) { l.Odds = 100 }, false, ""},
		{"exactly -100", func(l *Leg) { l.Odds = -100 }, false, ""},
		{"moneyline with point", func(l *Leg) { l.Point = ptr(3.5) }, true, "must not carry a point"},
		{"spreads without point", func(l *Leg) { l.MarketType = MarketSpreads }, true, "requires a point"},
		{"totals without point", func(l *Leg) { l.MarketType = MarketTotals; l.Team = TotalsOver }, true, "requires a point"},
		{"totals with team name", func(l *Leg) { l.MarketType = MarketTotals; l.Team = "Lakers"; l.Point = ptr(210.5) }, true, "side must be Over or Under"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leg := validLeg()
			tt.mutate(&leg)
			err := ValidateLeg(leg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateSlip(t *testing.T) {
	valid := Slip{
		UserID:      "u1",
		UserName:    "Sam",
		WagerAmount: 100,
		Bets:        []Leg{validLeg()},
		Status:      SlipPending,
	}

	t.Run("valid slip", func(t *testing.T) {
		require.NoError(t, ValidateSlip(valid))
	})

	t.Run("missing user", func(t *testing.T) {
		s := valid
		s.UserID = ""
		err := ValidateSlip(s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "userId is required")
	})

	t.Run("zero wager", func(t *testing.T) {
		s := valid
		s.WagerAmount = 0
		err := ValidateSlip(s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "wager amount must be positive")
	})

	t.Run("negative wager", func(t *testing.T) {
		s := valid
		s.WagerAmount = -25
		require.Error(t, ValidateSlip(s))
	})

	t.Run("no legs", func(t *testing.T) {
		s := valid
		s.Bets = nil
		err := ValidateSlip(s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one leg")
	})

	t.Run("bad leg reports index", func(t *testing.T) {
		bad := validLeg()
		bad.Odds = 0
		s := valid
		s.Bets = []Leg{validLeg(), bad}
		err := ValidateSlip(s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "leg 1")
	})
}

// --- Type helpers ---

func TestKnownMarket(t *testing.T) {
	assert.True(t, KnownMarket(MarketMoneyline))
	assert.True(t, KnownMarket(MarketSpreads))
	assert.True(t, KnownMarket(MarketTotals))
	assert.False(t, KnownMarket("h2h"))
	assert.False(t, KnownMarket(""))
}

func TestKnownSlipStatus(t *testing.T) {
	assert.True(t, KnownSlipStatus(SlipPending))
	assert.True(t, KnownSlipStatus(SlipWin))
	assert.True(t, KnownSlipStatus(SlipLose))
	assert.False(t, KnownSlipStatus("void"))
}

func TestLeg_Settled(t *testing.T) {
	leg := validLeg()
	assert.False(t, leg.Settled())
	leg.Result = LegWin
	assert.True(t, leg.Settled())
	leg.Result = LegLose
	assert.True(t, leg.Settled())
}

func TestFinalScore_ScoreFor(t *testing.T) {
	final := FinalScore{
		HomeTeam: "Lakers",
		AwayTeam: "Celtics",
		Scores: map[string]TeamScore{
			"Lakers":  {Score: 110},
			"Celtics": {Score: 104},
		},
	}

	assert.Equal(t, 110, final.ScoreFor("Lakers"))
	assert.Equal(t, 104, final.ScoreFor("Celtics"))

	t.Run("missing team defaults to zero", func(t *testing.T) {
		assert.Equal(t, 0, final.ScoreFor("Warriors"))
	})

	t.Run("nil scores map", func(t *testing.T) {
		empty := FinalScore{HomeTeam: "Lakers"}
		assert.Equal(t, 0, empty.ScoreFor("Lakers"))
	})
}

// --- AppError Tests ---

func TestAppError_Error(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := ErrNotFound("slip", "abc-123")
		assert.Equal(t, "NOT_FOUND: slip abc-123 not found", err.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := ErrProviderFetch("baseball_mlb", cause)
		assert.Contains(t, err.Error(), "PROVIDER_FETCH_FAILED")
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := ErrInternal("wrapped", cause)
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestErrorFactories(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"ErrNotFound", ErrNotFound("slip", "123"), "NOT_FOUND", 404},
		{"ErrValidation", ErrValidation("bad input"), "VALIDATION_ERROR", 400},
		{"ErrUnauthorized", ErrUnauthorized("no token"), "UNAUTHORIZED", 401},
		{"ErrForbidden", ErrForbidden("not allowed"), "FORBIDDEN", 403},
		{"ErrUnknownMarket", ErrUnknownMarket("exotic"), "UNKNOWN_MARKET", 422},
		{"ErrProviderFetch", ErrProviderFetch("baseball_mlb", nil), "PROVIDER_FETCH_FAILED", 502},
		{"ErrInternal", ErrInternal("oops", nil), "INTERNAL_ERROR", 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantStatus, tt.err.Status)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}
