package events

// Shift reminder lifecycle.
const (
	EventTypeShiftReminderRequested = "shift.reminder.requested"
)

// NewShiftReminderRequested is published when a shift is created with the
// reminder flag set. The flag itself is storage-only; subscribers decide what
// a reminder means.
func NewShiftReminderRequested(scheduleID string, shiftID int64, userID, date, label string) BaseEvent {
	return New(EventTypeShiftReminderRequested, map[string]interface{}{
		"schedule_id": scheduleID,
		"shift_id":    shiftID,
		"user_id":     userID,
		"date":        date,
		"shift":       label,
	})
}
