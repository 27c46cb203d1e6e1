package shift

import (
	internal "github.com/frahmantamala/shift-management/internal"
	shiftDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/shift"
)

// Shift is one dated assignment of a user to a shift-type label within a
// schedule. The assignee is always the actor who recorded it.
type Shift struct {
	ID         int64  `json:"id"`
	ScheduleID string `json:"schedule_id"`
	UserID     string `json:"user_id"`
	Date       string `json:"date"`
	Shift      string `json:"shift"`
	Reminder   bool   `json:"reminder"`
}

// Assignment pairs a shift with its assignee's display name; search and the
// schedule view are served from it.
type Assignment struct {
	Shift
	UserName string `json:"user_name"`
}

var (
	ErrShiftNotFound   = internal.NewNotFoundError("shift not found", internal.ErrCodeShiftNotFound)
	ErrLabelNotAllowed = internal.NewValidationError("shift label is not in the schedule's shift types", internal.ErrCodeInvalidShiftType)
)

func ToDataModel(s *Shift) *shiftDatamodel.Shift {
	return &shiftDatamodel.Shift{
		ID:         s.ID,
		ScheduleID: s.ScheduleID,
		UserID:     s.UserID,
		Date:       s.Date,
		Shift:      s.Shift,
		Reminder:   s.Reminder,
	}
}

func FromDataModel(row *shiftDatamodel.Shift) *Shift {
	return &Shift{
		ID:         row.ID,
		ScheduleID: row.ScheduleID,
		UserID:     row.UserID,
		Date:       row.Date,
		Shift:      row.Shift,
		Reminder:   row.Reminder,
	}
}
