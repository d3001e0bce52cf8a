package form

import (
	"feecalc/internal/core"
	"feecalc/internal/validation"
)

// RowView is one row prepared for rendering.
type RowView struct {
	ID         string
	Name       string
	Value      string
	ReadOnly   bool
	NameError  string
	ValueError string
}

// View is a read-only picture of a controller for templates.
type View struct {
	Rows      []RowView
	Submitted bool
	Selected  string
	Total     string
	Period    string
	ShowTotal bool
}

// Snapshot copies the controller state into a View.
func (c *Controller) Snapshot() View {
	v := View{
		Rows:      make([]RowView, 0, len(c.rows)),
		Submitted: c.submitted,
		Selected:  c.selected,
	}
	for _, r := range c.rows {
		errs := c.errors[r.ID]
		v.Rows = append(v.Rows, RowView{
			ID:         r.ID,
			Name:       r.Name,
			Value:      r.Value,
			ReadOnly:   c.locked[r.ID],
			NameError:  validation.FirstMessage(errs, "name"),
			ValueError: validation.FirstMessage(errs, "value"),
		})
	}
	if c.summary != nil {
		v.Total = c.summary.Display
		v.Period = c.summary.Period
		v.ShowTotal = core.ShowTotal(c.summary.Display)
	}
	return v
}
