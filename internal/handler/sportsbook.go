package handler

import (
	"net/http"

	"github.com/parlayline/platform/internal/auth"
	"github.com/parlayline/platform/internal/domain"
	"github.com/parlayline/platform/internal/service"
)

// SportsbookHandler serves the betting board and player slip endpoints.
type SportsbookHandler struct {
	svc *service.SportsbookService
}

// NewSportsbookHandler creates a SportsbookHandler.
func NewSportsbookHandler(svc *service.SportsbookService) *SportsbookHandler {
	return &SportsbookHandler{svc: svc}
}

// GetBoard handles GET /sportsbook/board.
func (h *SportsbookHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.svc.Board(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, board)
}

type previewRequest struct {
	WagerAmount float64      `json:"wagerAmount"`
	Bets        []domain.Leg `json:"bets"`
}

// PreviewParlay handles POST /sportsbook/preview.
func (h *SportsbookHandler) PreviewParlay(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	preview, err := h.svc.PreviewParlay(r.Context(), req.Bets, req.WagerAmount)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, preview)
}

// SubmitSlip handles POST /sportsbook/slips.
func (h *SportsbookHandler) SubmitSlip(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		RespondError(w, domain.ErrUnauthorized("no auth context"))
		return
	}

	var input service.SubmitSlipInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	slip, err := h.svc.SubmitSlip(r.Context(), claims.Subject, claims.Name, input)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, slip)
}

// MySlips handles GET /sportsbook/slips/me.
func (h *SportsbookHandler) MySlips(w http.ResponseWriter, r *http.Request) {
	userID := auth.SubjectFromContext(r.Context())
	if userID == "" {
		RespondError(w, domain.ErrUnauthorized("no auth context"))
		return
	}

	slips, err := h.svc.ListUserSlips(r.Context(), userID)
	if err != nil {
		RespondError(w, err)
		return
	}
	if slips == nil {
		slips = []domain.Slip{}
	}
	RespondJSON(w, http.StatusOK, slips)
}
