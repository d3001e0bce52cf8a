// Package form implements the fee list controller: an ordered list of
// editable rows that can be grown, shrunk, reset, filled from a template and
// reduced to a total.
//
// A Controller is not safe for concurrent use; callers serialise actions per
// page (see internal/session).
package form

import (
	"time"

	"feecalc/internal/catalog"
	"feecalc/internal/core"
	"feecalc/internal/validation"
)

// Input is what the user typed into one row.
type Input struct {
	Name  string
	Value string
}

// Controller holds the rows of one page.
type Controller struct {
	catalog *catalog.Catalog
	now     func() time.Time
	ids     idSource

	rows      []core.Row
	locked    map[string]bool
	submitted bool
	selected  string
	summary   *core.Summary
	errors    map[string][]validation.FieldError
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the clock used for the period label.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// New returns an empty controller whose templates come from cat.
func New(cat *catalog.Catalog, opts ...Option) *Controller {
	c := &Controller{
		catalog: cat,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddField appends one empty row and returns its id. Values already entered
// in other rows are left alone, and a submitted form stays submitted: rows
// that were calculated keep their read-only names, the new row is editable.
func (c *Controller) AddField() string {
	id := c.ids.newID()
	c.rows = append(c.rows, core.Row{ID: id})
	return id
}

// RemoveAt removes the row at index. Out of range indexes are ignored.
func (c *Controller) RemoveAt(index int) bool {
	if index < 0 || index >= len(c.rows) {
		return false
	}
	delete(c.errors, c.rows[index].ID)
	delete(c.locked, c.rows[index].ID)
	c.rows = append(c.rows[:index:index], c.rows[index+1:]...)
	return true
}

// Remove removes the row with the given id. Unknown ids are ignored.
func (c *Controller) Remove(id string) bool {
	return c.RemoveAt(c.indexOf(id))
}

// ResetAll empties the list, clears the total and the selected template and
// marks the form as not submitted.
func (c *Controller) ResetAll() {
	c.rows = nil
	c.locked = nil
	c.submitted = false
	c.selected = ""
	c.summary = nil
	c.errors = nil
}

// ApplyTemplate replaces every row with the items of template id. An empty
// id is the same as ResetAll. Unknown ids return core.ErrInvalidTemplate and
// leave the list untouched.
func (c *Controller) ApplyTemplate(id string) error {
	if id == "" {
		c.ResetAll()
		return nil
	}
	if c.catalog == nil {
		return core.ErrInvalidTemplate
	}
	tpl, err := c.catalog.Lookup(id)
	if err != nil {
		return err
	}

	c.rows = make([]core.Row, 0, len(tpl.Items))
	c.errors = nil
	for _, it := range tpl.Items {
		c.rows = append(c.rows, core.Row{ID: c.ids.newID(), Name: it.Name})
	}
	c.selected = tpl.ID
	return nil
}

// Update records the inputs of one row. The name of a row that was part of
// a successful calculation is read-only until the next reset; only its value
// changes.
func (c *Controller) Update(id string, in Input) bool {
	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	if !c.locked[id] {
		c.rows[i].Name = in.Name
	}
	c.rows[i].Value = in.Value
	return true
}

// Sync applies Update for every known row in inputs. Ids that no longer
// exist are skipped.
func (c *Controller) Sync(inputs map[string]Input) {
	for id, in := range inputs {
		c.Update(id, in)
	}
}

// Submit validates every row and, when all pass, sums the values in list
// order, marks the form submitted and returns Ok. Otherwise it returns
// ValidationFailed with the problems of every failing row and keeps the
// previous total.
func (c *Controller) Submit() Outcome {
	if errs := validation.ValidateRows(c.rows); errs != nil {
		c.errors = errs
		return ValidationFailed{Errors: errs}
	}

	items := make([]core.FeeItem, 0, len(c.rows))
	for _, r := range c.rows {
		it, err := r.Item()
		if err != nil {
			// ValidateRows and Row.Item apply the same rules
			c.errors = map[string][]validation.FieldError{r.ID: {{Field: "value", Message: err.Error()}}}
			return ValidationFailed{Errors: c.errors}
		}
		items = append(items, it)
	}

	summary := core.Summarize(items, c.now())
	c.summary = &summary
	c.submitted = true
	c.locked = make(map[string]bool, len(c.rows))
	for _, r := range c.rows {
		c.locked[r.ID] = true
	}
	c.errors = nil
	return Ok{Summary: summary}
}

// Rows returns a copy of the current rows.
func (c *Controller) Rows() []core.Row {
	out := make([]core.Row, len(c.rows))
	copy(out, c.rows)
	return out
}

// Len returns the number of rows.
func (c *Controller) Len() int { return len(c.rows) }

// Submitted reports whether the form was calculated since the last reset.
func (c *Controller) Submitted() bool { return c.submitted }

// ReadOnly reports whether the name of row id can no longer be edited.
func (c *Controller) ReadOnly(id string) bool { return c.locked[id] }

// Selected returns the id of the last applied template.
func (c *Controller) Selected() string { return c.selected }

// Total returns the formatted total, or "" when nothing was calculated.
func (c *Controller) Total() string {
	if c.summary == nil {
		return ""
	}
	return c.summary.Display
}

func (c *Controller) indexOf(id string) int {
	for i, r := range c.rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}
