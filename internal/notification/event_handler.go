package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/shift-management/internal/core/events"
)

// EventHandler turns shift reminder events into notification work. Delivery
// channels are out of scope for now, so the handler records the intent in the
// log where an operator can see it.
type EventHandler struct {
	logger *slog.Logger
}

func NewEventHandler(logger *slog.Logger) *EventHandler {
	return &EventHandler{logger: logger}
}

func (h *EventHandler) HandleShiftReminderRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload().(map[string]interface{})
	if !ok {
		h.logger.Error("invalid payload for shift reminder handler", "event_type", event.EventType())
		return fmt.Errorf("expected map payload, got %T", event.Payload())
	}

	h.logger.Info("shift reminder pending",
		"schedule_id", payload["schedule_id"],
		"shift_id", payload["shift_id"],
		"user_id", payload["user_id"],
		"date", payload["date"],
		"shift", payload["shift"],
		"event_id", event.EventID())

	return nil
}

func (h *EventHandler) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeShiftReminderRequested, h.HandleShiftReminderRequested)

	h.logger.Info("notification event handlers registered",
		"handlers", []string{events.EventTypeShiftReminderRequested})
}
