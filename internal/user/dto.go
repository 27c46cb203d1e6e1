package user

import (
	internal "github.com/frahmantamala/shift-management/internal"
	"github.com/frahmantamala/shift-management/internal/core/common/validation"
)

type UpdateLanguageDTO struct {
	Language string `json:"language"`
}

func (dto UpdateLanguageDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("language", dto.Language).Required().MaxLength(10)
	return v.Validate()
}
