// Package validation оборачивает go-playground/validator и переводит
// его ошибки в доменную ValidationError (поле -> сообщение).
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	serr "github.com/IvanChernomyrdin/go-recipe-api/internal/shared/errors"
)

// Validator — валидатор структур с именами полей из json-тегов.
type Validator struct {
	v *validator.Validate
}

// New создаёт валидатор, который в ошибках использует json-имена полей.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" || name == "-" {
			return fld.Name
		}
		// отрезаем опции вида ,omitempty
		if i := strings.IndexByte(name, ','); i >= 0 {
			name = name[:i]
		}
		return name
	})

	return &Validator{v: v}
}

// Struct проверяет структуру по тегам validate.
//
// Возвращает nil или *serr.ValidationError.
func (v *Validator) Struct(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.convert(err)
	}
	return nil
}

// Var проверяет одиночное значение, ошибку кладёт под именем field.
func (v *Validator) Var(field string, value any, tag string) error {
	if err := v.v.Var(value, tag); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return serr.NewValidationError(field, message(fieldErrs[0]))
		}
		return err
	}
	return nil
}

func (v *Validator) convert(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &serr.ValidationError{}
	for _, e := range fieldErrs {
		out.Add(e.Field(), message(e))
	}
	return out
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "url":
		return "enter a valid URL"
	case "min":
		return fmt.Sprintf("ensure this field has at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("ensure this field has no more than %s characters", e.Param())
	case "gte":
		return "ensure this value is greater than or equal to " + e.Param()
	case "lte":
		return "ensure this value is less than or equal to " + e.Param()
	default:
		return "is invalid"
	}
}
