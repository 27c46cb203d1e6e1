package schedule

import (
	"strings"
	"time"

	internal "github.com/frahmantamala/shift-management/internal"
	"github.com/frahmantamala/shift-management/internal/core/common/validation"
)

const scheduleIDLength = 10

type CreateScheduleDTO struct {
	Name string `json:"name"`
	// ScheduleID optionally carries a pre-generated id (the original UI showed
	// the id before submitting). Left empty, the server draws one.
	ScheduleID string `json:"schedule_id,omitempty"`
}

func (dto CreateScheduleDTO) Validate() *internal.AppError {
	if strings.TrimSpace(dto.Name) == "" {
		return ErrEmptyName
	}
	v := validation.NewValidator()
	v.Field("name", dto.Name).MaxLength(100)
	if err := v.Validate(); err != nil {
		return err
	}
	if dto.ScheduleID != "" && !isValidScheduleID(dto.ScheduleID) {
		return internal.NewValidationError("schedule_id must be a 10-digit numeric string", internal.ErrCodeValidationFailed)
	}
	return nil
}

func isValidScheduleID(id string) bool {
	if len(id) != scheduleIDLength {
		return false
	}
	for _, c := range id {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

type UpdateShiftTypesDTO struct {
	ShiftTypes []string `json:"shift_types"`
}

func (dto UpdateShiftTypesDTO) Validate() *internal.AppError {
	if len(dto.ShiftTypes) == 0 {
		return ErrEmptyShiftTypes
	}
	v := validation.NewValidator()
	for _, label := range dto.ShiftTypes {
		v.Field("shift_types", label).Required().MaxLength(50)
	}
	return v.Validate()
}

// ShiftView, MemberView and HistoryView are the read shapes the schedule
// detail page is assembled from; the shift, collaborator and history services
// provide them.
type ShiftView struct {
	ID       int64  `json:"id"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Date     string `json:"date"`
	Shift    string `json:"shift"`
	Reminder bool   `json:"reminder"`
}

type MemberView struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

type HistoryView struct {
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

type DashboardDTO struct {
	Owned        []*Schedule `json:"owned"`
	Collaborated []*Schedule `json:"collaborated"`
}

type ViewDTO struct {
	Schedule      *Schedule     `json:"schedule"`
	Role          string        `json:"role"`
	Shifts        []ShiftView   `json:"shifts"`
	Collaborators []MemberView  `json:"collaborators"`
	History       []HistoryView `json:"history"`
}

// ExportDTO is the owner-only snapshot of a schedule.
type ExportDTO struct {
	ScheduleID string           `json:"schedule_id"`
	Name       string           `json:"name"`
	Owner      string           `json:"owner"`
	Shifts     []ExportShiftDTO `json:"shifts"`
}

type ExportShiftDTO struct {
	User     string `json:"user"`
	Date     string `json:"date"`
	Shift    string `json:"shift"`
	Reminder bool   `json:"reminder"`
}
