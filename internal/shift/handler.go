package shift

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	internal "github.com/frahmantamala/shift-management/internal"
	"github.com/frahmantamala/shift-management/internal/core/common/sanitize"
	"github.com/frahmantamala/shift-management/internal/transport"
	"github.com/frahmantamala/shift-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Add(ctx context.Context, actorID, scheduleID string, dto CreateShiftDTO) (*Shift, error)
	Remove(actorID, scheduleID string, shiftID int64) error
	Search(actorID, scheduleID, query string) ([]*Assignment, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) AddShift(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	scheduleID := chi.URLParam(r, "id")

	var dto CreateShiftDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dto.Date = sanitize.Text(dto.Date)
	dto.Shift = sanitize.Text(dto.Shift)

	sh, err := h.Service.Add(r.Context(), principal.ID, scheduleID, dto)
	if err != nil {
		h.Logger.Error("AddShift: service error", "error", err, "schedule_id", scheduleID, "user_id", principal.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, sh)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	scheduleID := chi.URLParam(r, "id")

	shiftIDStr := chi.URLParam(r, "shiftID")
	shiftID, err := strconv.ParseInt(shiftIDStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid shift ID")
		return
	}

	if err := h.Service.Remove(principal.ID, scheduleID, shiftID); err != nil {
		h.Logger.Error("DeleteShift: service error", "error", err, "shift_id", shiftID, "schedule_id", scheduleID, "user_id", principal.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) SearchShifts(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	scheduleID := chi.URLParam(r, "id")
	query := sanitize.Text(r.URL.Query().Get("q"))

	assignments, err := h.Service.Search(principal.ID, scheduleID, query)
	if err != nil {
		h.Logger.Error("SearchShifts: service error", "error", err, "schedule_id", scheduleID, "user_id", principal.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"query":  query,
		"shifts": assignments,
	})
}
