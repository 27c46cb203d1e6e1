package history

import (
	"time"
)

// Entry is one line of a schedule's audit trail. Entries are appended in the
// same transaction as the mutation they document and are immutable afterwards.
type Entry struct {
	ID         int64     `json:"id"`
	ScheduleID string    `json:"schedule_id"`
	UserID     string    `json:"user_id"`
	Action     string    `json:"action"`
	Timestamp  time.Time `json:"timestamp"`
}

type Repository interface {
	// ListBySchedule returns entries newest first.
	ListBySchedule(scheduleID string) ([]*Entry, error)
}
