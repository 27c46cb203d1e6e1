package schedule

import (
	"encoding/json"
	"time"

	internal "github.com/frahmantamala/shift-management/internal"
	scheduleDatamodel "github.com/frahmantamala/shift-management/internal/core/datamodel/schedule"
)

// DefaultShiftTypes is the vocabulary a new schedule starts with.
var DefaultShiftTypes = []string{"早班", "晚班", "夜班"}

// Schedule is a named shift board. OwnerID is fixed at creation; the id is a
// 10-digit numeric string unique for the lifetime of the store.
type Schedule struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	OwnerID    string    `json:"owner_id"`
	CreatedAt  time.Time `json:"created_at"`
	ShiftTypes []string  `json:"shift_types"`
}

// HasShiftType reports whether label is part of the schedule's vocabulary.
func (s *Schedule) HasShiftType(label string) bool {
	for _, t := range s.ShiftTypes {
		if t == label {
			return true
		}
	}
	return false
}

var (
	ErrScheduleNotFound = internal.NewNotFoundError("schedule not found", internal.ErrCodeScheduleNotFound)
	ErrNotAuthorized    = internal.NewForbiddenError("not authorized for this schedule", internal.ErrCodeNotAuthorized)
	ErrOwnerOnly        = internal.NewForbiddenError("only the schedule owner may perform this action", internal.ErrCodeOwnerOnly)
	ErrScheduleIDUsed   = internal.NewConflictError("schedule id already exists", internal.ErrCodeScheduleIDUsed)
	ErrEmptyName        = internal.NewValidationError("schedule name must not be empty", internal.ErrCodeEmptyName)
	ErrEmptyShiftTypes  = internal.NewValidationError("shift types must not be empty", internal.ErrCodeEmptyShiftTypes)
)

func ToDataModel(s *Schedule) (*scheduleDatamodel.Schedule, error) {
	encoded, err := json.Marshal(s.ShiftTypes)
	if err != nil {
		return nil, err
	}
	return &scheduleDatamodel.Schedule{
		ID:         s.ID,
		Name:       s.Name,
		OwnerID:    s.OwnerID,
		CreatedAt:  s.CreatedAt,
		ShiftTypes: string(encoded),
	}, nil
}

func FromDataModel(row *scheduleDatamodel.Schedule) (*Schedule, error) {
	var shiftTypes []string
	if err := json.Unmarshal([]byte(row.ShiftTypes), &shiftTypes); err != nil {
		return nil, err
	}
	return &Schedule{
		ID:         row.ID,
		Name:       row.Name,
		OwnerID:    row.OwnerID,
		CreatedAt:  row.CreatedAt,
		ShiftTypes: shiftTypes,
	}, nil
}

func FromDataModelSlice(rows []*scheduleDatamodel.Schedule) ([]*Schedule, error) {
	result := make([]*Schedule, len(rows))
	for i, row := range rows {
		s, err := FromDataModel(row)
		if err != nil {
			return nil, err
		}
		result[i] = s
	}
	return result, nil
}
