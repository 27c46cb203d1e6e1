package validation

import (
	"fmt"
	"time"

	errors "github.com/frahmantamala/shift-management/internal"
)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]FieldValidator, 0),
	}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return &v.fields[len(v.fields)-1]
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		switch v := value.(type) {
		case string:
			if v == "" {
				return errors.NewValidationError(fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
			}
		case []string:
			if len(v) == 0 {
				return errors.NewValidationError(fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if s, ok := value.(string); ok && len(s) > max {
			return errors.NewValidationError(
				fmt.Sprintf("%s must be at most %d characters", fv.FieldName, max),
				errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

// DateBetween requires the value to parse as a YYYY-MM-DD calendar date and
// fall within [min, max] inclusive.
func (fv *FieldValidator) DateBetween(min, max time.Time) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		s, ok := value.(string)
		if !ok {
			return errors.NewValidationError(fmt.Sprintf("%s must be a date string", fv.FieldName), errors.ErrCodeInvalidDate)
		}
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return errors.NewValidationError(fmt.Sprintf("%s is not a valid date", fv.FieldName), errors.ErrCodeInvalidDate)
		}
		if d.Before(min) || d.After(max) {
			return errors.NewValidationError(
				fmt.Sprintf("%s must be between %s and %s", fv.FieldName, min.Format("2006-01-02"), max.Format("2006-01-02")),
				errors.ErrCodeDateOutOfRange)
		}
		return nil
	})
	return fv
}

// Validate runs all field validators and returns the first failure.
func (v *ValidationBuilder) Validate() *errors.AppError {
	for _, field := range v.fields {
		for _, fn := range field.Validators {
			if err := fn(field.Value); err != nil {
				return err
			}
		}
	}
	return nil
}
