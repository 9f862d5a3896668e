package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/parlayline/platform/internal/domain"
	"github.com/parlayline/platform/internal/handler"
	"github.com/parlayline/platform/internal/service"
	"github.com/parlayline/platform/internal/settlement"
)

// SlipAdminHandler handles admin slip management and settlement runs.
type SlipAdminHandler struct {
	svc    *service.SportsbookService
	runner *settlement.Runner
}

// NewSlipAdminHandler creates a new SlipAdminHandler.
func NewSlipAdminHandler(svc *service.SportsbookService, runner *settlement.Runner) *SlipAdminHandler {
	return &SlipAdminHandler{svc: svc, runner: runner}
}

// ListSlips handles GET /admin/slips.
func (h *SlipAdminHandler) ListSlips(w http.ResponseWriter, r *http.Request) {
	slips, err := h.svc.ListSlips(r.Context())
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	if slips == nil {
		slips = []domain.Slip{}
	}
	handler.RespondJSON(w, http.StatusOK, slips)
}

// UpdateSlipStatus handles PATCH /admin/slips/{id}/status.
func (h *SlipAdminHandler) UpdateSlipStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid slip id"))
		return
	}

	var input struct {
		Status domain.SlipStatus `json:"status"`
	}
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	slip, err := h.svc.UpdateSlipStatus(r.Context(), id, input.Status)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, slip)
}

// DeleteSlip handles DELETE /admin/slips/{id}.
func (h *SlipAdminHandler) DeleteSlip(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid slip id"))
		return
	}

	if err := h.svc.DeleteSlip(r.Context(), id); err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusNoContent, nil)
}

// RunSettlement handles POST /admin/settlement/run.
func (h *SlipAdminHandler) RunSettlement(w http.ResponseWriter, r *http.Request) {
	summary, err := h.runner.Run(r.Context())
	if err != nil {
		handler.RespondError(w, domain.ErrInternal("settlement run", err))
		return
	}
	handler.RespondJSON(w, http.StatusOK, summary)
}
