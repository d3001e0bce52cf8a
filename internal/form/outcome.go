package form

import (
	"feecalc/internal/core"
	"feecalc/internal/validation"
)

// Outcome is the result of Submit: either Ok or ValidationFailed.
type Outcome interface {
	outcome()
}

// Ok carries the calculated summary.
type Ok struct {
	Summary core.Summary
}

// ValidationFailed carries the per-row problems, keyed by row id.
type ValidationFailed struct {
	Errors map[string][]validation.FieldError
}

func (Ok) outcome()               {}
func (ValidationFailed) outcome() {}
