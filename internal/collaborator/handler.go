package collaborator

import (
	"log/slog"
	"net/http"

	internal "github.com/frahmantamala/shift-management/internal"
	"github.com/frahmantamala/shift-management/internal/transport"
	"github.com/frahmantamala/shift-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Join(actorID, scheduleID string) (JoinStatus, error)
	Remove(actorID, scheduleID, targetUserID string) error
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

func (h *Handler) JoinSchedule(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	scheduleID := chi.URLParam(r, "id")

	status, err := h.Service.Join(principal.ID, scheduleID)
	if err != nil {
		h.Logger.Error("JoinSchedule: service error", "error", err, "schedule_id", scheduleID, "user_id", principal.ID)
		h.HandleServiceError(w, err)
		return
	}

	switch status {
	case JoinStatusJoined:
		h.WriteJSON(w, http.StatusCreated, map[string]string{"status": status.String()})
	case JoinStatusOwner:
		// Non-fatal: the owner already has full access, nothing changed.
		h.WriteJSON(w, http.StatusOK, map[string]string{
			"status":  status.String(),
			"warning": "you already own this schedule",
		})
	default:
		h.WriteJSON(w, http.StatusOK, map[string]string{"status": status.String()})
	}
}

func (h *Handler) RemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	scheduleID := chi.URLParam(r, "id")
	targetUserID := chi.URLParam(r, "userID")

	if err := h.Service.Remove(principal.ID, scheduleID, targetUserID); err != nil {
		h.Logger.Error("RemoveCollaborator: service error", "error", err, "schedule_id", scheduleID, "target_user_id", targetUserID, "user_id", principal.ID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
