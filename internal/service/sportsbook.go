package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/parlayline/platform/internal/domain"
	"github.com/parlayline/platform/internal/parlay"
)

// SlipStore is the slip persistence surface the service needs.
type SlipStore interface {
	Insert(ctx context.Context, slip *domain.Slip) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Slip, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Slip, error)
	ListAll(ctx context.Context) ([]domain.Slip, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.SlipStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OddsSource supplies normalized betting lines per sport, with the
// timestamp of the underlying fetch and whether it is past its TTL.
type OddsSource interface {
	Odds(ctx context.Context, sportKey string) ([]domain.Leg, time.Time, bool, error)
}

// SportsbookService handles the betting board and slip lifecycle.
type SportsbookService struct {
	slips     SlipStore
	odds      OddsSource
	sportKeys []string
	logger    *slog.Logger
}

// NewSportsbookService creates a SportsbookService.
func NewSportsbookService(slips SlipStore, odds OddsSource, sportKeys []string, logger *slog.Logger) *SportsbookService {
	return &SportsbookService{slips: slips, odds: odds, sportKeys: sportKeys, logger: logger}
}

// Board is the merged betting board across all configured sports.
type Board struct {
	Legs        []domain.Leg `json:"legs"`
	LastUpdated time.Time    `json:"lastUpdated"`
	Stale       bool         `json:"stale"`
}

// Board returns available lines for every configured sport. The board
// is marked stale if any sport was served from an expired snapshot. A
// sport whose provider is unreachable with no snapshot at all fails
// the whole board.
func (s *SportsbookService) Board(ctx context.Context) (*Board, error) {
	board := &Board{Legs: []domain.Leg{}}
	for _, key := range s.sportKeys {
		legs, fetchedAt, stale, err := s.odds.Odds(ctx, key)
		if err != nil {
			return nil, err
		}
		board.Legs = append(board.Legs, legs...)
		if fetchedAt.After(board.LastUpdated) {
			board.LastUpdated = fetchedAt
		}
		board.Stale = board.Stale || stale
	}
	return board, nil
}

// PreviewParlay validates legs and computes the combined payout
// without persisting anything.
func (s *SportsbookService) PreviewParlay(ctx context.Context, legs []domain.Leg, wager float64) (*parlay.Preview, error) {
	if wager <= 0 {
		return nil, domain.ErrValidation("wager must be positive")
	}
	if len(legs) == 0 {
		return nil, domain.ErrValidation("at least one leg is required")
	}
	for i, leg := range legs {
		if err := domain.ValidateLeg(leg); err != nil {
			return nil, domain.ErrValidation(fmt.Sprintf("leg %d: %v", i, err))
		}
	}
	return parlay.NewPreview(legs, wager)
}

// SubmitSlipInput holds a slip submission.
type SubmitSlipInput struct {
	WagerAmount float64      `json:"wagerAmount"`
	Bets        []domain.Leg `json:"bets"`
}

// SubmitSlip validates and stores a new pending slip for the user.
// Any leg results sent by the client are discarded; settlement owns
// them.
func (s *SportsbookService) SubmitSlip(ctx context.Context, userID, userName string, input SubmitSlipInput) (*domain.Slip, error) {
	slip := &domain.Slip{
		ID:          uuid.New(),
		UserID:      userID,
		UserName:    userName,
		WagerAmount: input.WagerAmount,
		Bets:        make([]domain.Leg, len(input.Bets)),
		Status:      domain.SlipPending,
		CreatedAt:   time.Now().UTC(),
	}
	copy(slip.Bets, input.Bets)
	for i := range slip.Bets {
		slip.Bets[i].Result = ""
	}

	if err := domain.ValidateSlip(*slip); err != nil {
		return nil, err
	}
	if err := s.slips.Insert(ctx, slip); err != nil {
		return nil, domain.ErrInternal("insert slip", err)
	}

	s.logger.Info("slip submitted",
		"slip_id", slip.ID,
		"user_id", slip.UserID,
		"legs", len(slip.Bets),
		"wager", slip.WagerAmount)
	return slip, nil
}

// ListUserSlips returns the user's slips, newest first.
func (s *SportsbookService) ListUserSlips(ctx context.Context, userID string) ([]domain.Slip, error) {
	slips, err := s.slips.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.ErrInternal("list user slips", err)
	}
	return slips, nil
}

// ListSlips returns every slip in the book, newest first.
func (s *SportsbookService) ListSlips(ctx context.Context) ([]domain.Slip, error) {
	slips, err := s.slips.ListAll(ctx)
	if err != nil {
		return nil, domain.ErrInternal("list slips", err)
	}
	return slips, nil
}

// UpdateSlipStatus overrides a slip's status. Admin correction path;
// it does not touch individual leg results.
func (s *SportsbookService) UpdateSlipStatus(ctx context.Context, id uuid.UUID, status domain.SlipStatus) (*domain.Slip, error) {
	if !domain.KnownSlipStatus(status) {
		return nil, domain.ErrValidation(fmt.Sprintf("unknown slip status %q", status))
	}
	slip, err := s.slips.FindByID(ctx, id)
	if err != nil {
		return nil, domain.ErrInternal("find slip", err)
	}
	if slip == nil {
		return nil, domain.ErrNotFound("slip", id.String())
	}
	if err := s.slips.UpdateStatus(ctx, id, status); err != nil {
		return nil, domain.ErrInternal("update slip status", err)
	}
	slip.Status = status
	s.logger.Info("slip status overridden", "slip_id", id, "status", status)
	return slip, nil
}

// DeleteSlip removes a slip entirely.
func (s *SportsbookService) DeleteSlip(ctx context.Context, id uuid.UUID) error {
	slip, err := s.slips.FindByID(ctx, id)
	if err != nil {
		return domain.ErrInternal("find slip", err)
	}
	if slip == nil {
		return domain.ErrNotFound("slip", id.String())
	}
	if err := s.slips.Delete(ctx, id); err != nil {
		return domain.ErrInternal("delete slip", err)
	}
	s.logger.Info("slip deleted", "slip_id", id)
	return nil
}
