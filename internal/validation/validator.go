// Package validation checks fee rows before they are summed. It plays the
// part of the form-validation layer: every row is checked on its own and all
// problems are reported, keyed by row id.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"feecalc/internal/core"
)

var (
	validatorInstance *validator.Validate
	validatorOnce     sync.Once
)

// Messages maps "<field>.<tag>" to the text shown next to the input.
var Messages = map[string]string{
	"name.required":  "Enter a field name",
	"name.notblank":  "Enter a field name",
	"value.required": "Enter a value",
	"value.feevalue": "Value must be a number",
}

// rowInput mirrors the two inputs of a fee row.
type rowInput struct {
	Name  string `json:"name" validate:"required,notblank"`
	Value string `json:"value" validate:"required,feevalue"`
}

// FieldError is one failed check on one input of a row.
type FieldError struct {
	Field   string
	Tag     string
	Message string
}

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInstance = validator.New(validator.WithRequiredStructEnabled())

		validatorInstance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = validatorInstance.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = validatorInstance.RegisterValidation("feevalue", func(fl validator.FieldLevel) bool {
			_, err := core.ParseValue(fl.Field().String())
			return err == nil
		})
	})

	return validatorInstance
}

// ValidateRows checks every row and returns the failures per row id. A nil
// map means every row is valid.
func ValidateRows(rows []core.Row) map[string][]FieldError {
	v := getValidator()

	var out map[string][]FieldError
	for _, row := range rows {
		err := v.Struct(rowInput{Name: row.Name, Value: row.Value})
		if err == nil {
			continue
		}

		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			continue
		}
		if out == nil {
			out = make(map[string][]FieldError)
		}
		for _, fe := range verrs {
			out[row.ID] = append(out[row.ID], FieldError{
				Field:   fe.Field(),
				Tag:     fe.Tag(),
				Message: Messages[fe.Field()+"."+fe.Tag()],
			})
		}
	}
	return out
}

// FirstMessage returns the message of the first error reported for field,
// or "" when the field passed.
func FirstMessage(errs []FieldError, field string) string {
	for _, e := range errs {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}
