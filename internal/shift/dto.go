package shift

import (
	"time"

	internal "github.com/frahmantamala/shift-management/internal"
	"github.com/frahmantamala/shift-management/internal/core/common/validation"
)

// Shift dates are constrained to this window regardless of role.
var (
	MinShiftDate = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	MaxShiftDate = time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC)
)

type CreateShiftDTO struct {
	Date     string `json:"date"`
	Shift    string `json:"shift"`
	Reminder bool   `json:"reminder"`
}

func (dto CreateShiftDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("shift", dto.Shift).Required().MaxLength(50)
	v.Field("date", dto.Date).Required().DateBetween(MinShiftDate, MaxShiftDate)
	return v.Validate()
}
