package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/parlayline/platform/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSlipStore struct {
	slips map[uuid.UUID]*domain.Slip
}

func newFakeSlipStore() *fakeSlipStore {
	return &fakeSlipStore{slips: make(map[uuid.UUID]*domain.Slip)}
}

func (f *fakeSlipStore) Insert(_ context.Context, slip *domain.Slip) error {
	cp := *slip
	f.slips[slip.ID] = &cp
	return nil
}

func (f *fakeSlipStore) FindByID(_ context.Context, id uuid.UUID) (*domain.Slip, error) {
	s, ok := f.slips[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSlipStore) ListByUser(_ context.Context, userID string) ([]domain.Slip, error) {
	var out []domain.Slip
	for _, s := range f.slips {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSlipStore) ListAll(_ context.Context) ([]domain.Slip, error) {
	var out []domain.Slip
	for _, s := range f.slips {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeSlipStore) UpdateStatus(_ context.Context, id uuid.UUID, status domain.SlipStatus) error {
	s, ok := f.slips[id]
	if !ok {
		return domain.ErrNotFound("slip", id.String())
	}
	s.Status = status
	return nil
}

func (f *fakeSlipStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.slips[id]; !ok {
		return domain.ErrNotFound("slip", id.String())
	}
	delete(f.slips, id)
	return nil
}

type fakeOddsSource struct {
	legs      map[string][]domain.Leg
	fetchedAt map[string]time.Time
	stale     map[string]bool
	err       map[string]error
}

func (f *fakeOddsSource) Odds(_ context.Context, sportKey string) ([]domain.Leg, time.Time, bool, error) {
	if err := f.err[sportKey]; err != nil {
		return nil, time.Time{}, false, err
	}
	return f.legs[sportKey], f.fetchedAt[sportKey], f.stale[sportKey], nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validLeg() domain.Leg {
	return domain.Leg{
		GameID:     "g1",
		Game:       "Pistons vs Lakers",
		SportKey:   "basketball_nba",
		MarketType: domain.MarketMoneyline,
		Team:       "Lakers",
		Odds:       -150,
	}
}

func TestSportsbookService_Board(t *testing.T) {
	nba := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	nfl := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	odds := &fakeOddsSource{
		legs: map[string][]domain.Leg{
			"basketball_nba":       {validLeg()},
			"americanfootball_nfl": {validLeg(), validLeg()},
		},
		fetchedAt: map[string]time.Time{
			"basketball_nba":       nba,
			"americanfootball_nfl": nfl,
		},
		stale: map[string]bool{"basketball_nba": true},
		err:   map[string]error{},
	}
	svc := NewSportsbookService(newFakeSlipStore(), odds,
		[]string{"basketball_nba", "americanfootball_nfl"}, discardLogger())

	board, err := svc.Board(context.Background())
	require.NoError(t, err)
	assert.Len(t, board.Legs, 3)
	assert.Equal(t, nfl, board.LastUpdated, "board timestamp is the newest fetch")
	assert.True(t, board.Stale, "one stale sport marks the whole board stale")
}

func TestSportsbookService_Board_SportHardFailure(t *testing.T) {
	odds := &fakeOddsSource{
		legs:      map[string][]domain.Leg{"basketball_nba": {validLeg()}},
		fetchedAt: map[string]time.Time{},
		stale:     map[string]bool{},
		err: map[string]error{
			"americanfootball_nfl": domain.ErrProviderFetch("americanfootball_nfl", errors.New("timeout")),
		},
	}
	svc := NewSportsbookService(newFakeSlipStore(), odds,
		[]string{"basketball_nba", "americanfootball_nfl"}, discardLogger())

	_, err := svc.Board(context.Background())
	require.Error(t, err)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "PROVIDER_FETCH_FAILED", appErr.Code)
}

func TestSportsbookService_PreviewParlay(t *testing.T) {
	svc := NewSportsbookService(newFakeSlipStore(), &fakeOddsSource{}, nil, discardLogger())

	legA := validLeg()
	legA.Odds = -150
	legB := validLeg()
	legB.Odds = 120

	preview, err := svc.PreviewParlay(context.Background(), []domain.Leg{legA, legB}, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, preview.LegCount)
	assert.InDelta(t, 3.6667, preview.CombinedOdds, 0.001)
	assert.InDelta(t, 266.67, preview.PotentialProfit, 0.01)
	assert.InDelta(t, 366.67, preview.TotalPayout, 0.01)
}

func TestSportsbookService_PreviewParlay_Rejections(t *testing.T) {
	svc := NewSportsbookService(newFakeSlipStore(), &fakeOddsSource{}, nil, discardLogger())

	_, err := svc.PreviewParlay(context.Background(), []domain.Leg{validLeg()}, 0)
	assert.Error(t, err, "zero wager")

	_, err = svc.PreviewParlay(context.Background(), nil, 50)
	assert.Error(t, err, "no legs")

	bad := validLeg()
	bad.Odds = 50
	_, err = svc.PreviewParlay(context.Background(), []domain.Leg{bad}, 50)
	assert.Error(t, err, "odds magnitude below 100")
}

func TestSportsbookService_SubmitSlip(t *testing.T) {
	store := newFakeSlipStore()
	svc := NewSportsbookService(store, &fakeOddsSource{}, nil, discardLogger())

	leg := validLeg()
	leg.Result = domain.LegWin // client cannot pre-settle its own legs

	slip, err := svc.SubmitSlip(context.Background(), "user-1", "Sam", SubmitSlipInput{
		WagerAmount: 25,
		Bets:        []domain.Leg{leg},
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, slip.ID)
	assert.Equal(t, "user-1", slip.UserID)
	assert.Equal(t, "Sam", slip.UserName)
	assert.Equal(t, domain.SlipPending, slip.Status)
	assert.Empty(t, slip.Bets[0].Result)
	assert.False(t, slip.CreatedAt.IsZero())

	stored, err := store.FindByID(context.Background(), slip.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestSportsbookService_SubmitSlip_Invalid(t *testing.T) {
	svc := NewSportsbookService(newFakeSlipStore(), &fakeOddsSource{}, nil, discardLogger())

	_, err := svc.SubmitSlip(context.Background(), "user-1", "Sam", SubmitSlipInput{
		WagerAmount: -5,
		Bets:        []domain.Leg{validLeg()},
	})
	require.Error(t, err)

	_, err = svc.SubmitSlip(context.Background(), "user-1", "Sam", SubmitSlipInput{
		WagerAmount: 10,
	})
	require.Error(t, err, "empty slip")
}

func TestSportsbookService_UpdateSlipStatus(t *testing.T) {
	store := newFakeSlipStore()
	svc := NewSportsbookService(store, &fakeOddsSource{}, nil, discardLogger())

	slip, err := svc.SubmitSlip(context.Background(), "user-1", "Sam", SubmitSlipInput{
		WagerAmount: 10,
		Bets:        []domain.Leg{validLeg()},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateSlipStatus(context.Background(), slip.ID, domain.SlipWin)
	require.NoError(t, err)
	assert.Equal(t, domain.SlipWin, updated.Status)

	_, err = svc.UpdateSlipStatus(context.Background(), slip.ID, domain.SlipStatus("void"))
	require.Error(t, err, "unknown status rejected")

	_, err = svc.UpdateSlipStatus(context.Background(), uuid.New(), domain.SlipLose)
	require.Error(t, err, "missing slip")
}

func TestSportsbookService_DeleteSlip(t *testing.T) {
	store := newFakeSlipStore()
	svc := NewSportsbookService(store, &fakeOddsSource{}, nil, discardLogger())

	slip, err := svc.SubmitSlip(context.Background(), "user-1", "Sam", SubmitSlipInput{
		WagerAmount: 10,
		Bets:        []domain.Leg{validLeg()},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSlip(context.Background(), slip.ID))

	stored, err := store.FindByID(context.Background(), slip.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	err = svc.DeleteSlip(context.Background(), slip.ID)
	require.Error(t, err, "second delete fails")
}
