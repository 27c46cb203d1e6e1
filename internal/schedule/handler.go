package schedule

import (
	"encoding/json"
	"log/slog"
	"net/http"

	internal "github.com/frahmantamala/shift-management/internal"
	"github.com/frahmantamala/shift-management/internal/core/common/sanitize"
	"github.com/frahmantamala/shift-management/internal/transport"
	"github.com/frahmantamala/shift-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(actorID string, dto CreateScheduleDTO) (*Schedule, error)
	Dashboard(actorID string) (*DashboardDTO, error)
	View(actorID, scheduleID string) (*ViewDTO, error)
	UpdateShiftTypes(actorID, scheduleID string, dto UpdateShiftTypesDTO) (*Schedule, error)
	Delete(actorID, scheduleID string) error
	Export(actorID, scheduleID string) (*ExportDTO, error)
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

func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateScheduleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dto.Name = sanitize.Text(dto.Name)
	dto.ScheduleID = sanitize.Text(dto.ScheduleID)

	sched, err := h.Service.Create(principal.ID, dto)
	if err != nil {
		h.Logger.Error("CreateSchedule: service error", "error", err, "user_id", principal.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, sched)
}

func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	dashboard, err := h.Service.Dashboard(principal.ID)
	if err != nil {
		h.Logger.Error("ListSchedules: service error", "error", err, "user_id", principal.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, dashboard)
}

func (h *Handler) ViewSchedule(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	scheduleID := chi.URLParam(r, "id")

	view, err := h.Service.View(principal.ID, scheduleID)
	if err != nil {
		h.Logger.Error("ViewSchedule: service error", "error", err, "schedule_id", scheduleID, "user_id", principal.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) UpdateShiftTypes(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	scheduleID := chi.URLParam(r, "id")

	var dto UpdateShiftTypesDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dto.ShiftTypes = sanitize.Slice(dto.ShiftTypes)

	sched, err := h.Service.UpdateShiftTypes(principal.ID, scheduleID, dto)
	if err != nil {
		h.Logger.Error("UpdateShiftTypes: service error", "error", err, "schedule_id", scheduleID, "user_id", principal.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, sched)
}

func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	scheduleID := chi.URLParam(r, "id")

	if err := h.Service.Delete(principal.ID, scheduleID); err != nil {
		h.Logger.Error("DeleteSchedule: service error", "error", err, "schedule_id", scheduleID, "user_id", principal.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) ExportSchedule(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	scheduleID := chi.URLParam(r, "id")

	export, err := h.Service.Export(principal.ID, scheduleID)
	if err != nil {
		h.Logger.Error("ExportSchedule: service error", "error", err, "schedule_id", scheduleID, "user_id", principal.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, export)
}
