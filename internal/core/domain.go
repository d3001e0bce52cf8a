package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type (
	// FeeItem is one named, valued row of a calculated fee list.
	FeeItem struct {
		Name  string
		Value decimal.Decimal
	}

	// Row is an editable FeeItem as the user typed it. Name and Value hold
	// raw input; ID is assigned once when the row is created.
	Row struct {
		ID    string
		Name  string
		Value string
	}

	// TemplateItem is one predefined starter row. Templates carry names only,
	// values are always left for the user to fill in.
	TemplateItem struct {
		Name string `yaml:"name"`
	}

	// Template is a named, predefined starter set of rows.
	Template struct {
		ID    string         `yaml:"id"`
		Label string         `yaml:"label"`
		Items []TemplateItem `yaml:"items"`
	}
)

// Errors returned by row validation and template lookup. Callers match them
// with errors.Is; wrapped forms carry the offending id or input.
var (
	// ErrInvalidTemplate reports a template id missing from the catalog.
	ErrInvalidTemplate = errors.New("invalid template")
	// ErrEmptyName reports a row whose name is blank.
	ErrEmptyName = errors.New("empty field name")
	// ErrMissingValue reports a row with no value.
	ErrMissingValue = errors.New("missing field value")
	// ErrInvalidValue reports a value that is not a number or is out of range.
	ErrInvalidValue = errors.New("invalid field value")
)

// Validate checks that a row can become a FeeItem.
func (r Row) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(r.Value) == "" {
		return ErrMissingValue
	}
	if _, err := ParseValue(r.Value); err != nil {
		return err
	}
	return nil
}

// Item converts a row into a FeeItem.
func (r Row) Item() (FeeItem, error) {
	if err := r.Validate(); err != nil {
		return FeeItem{}, err
	}
	v, _ := ParseValue(r.Value)
	return FeeItem{Name: strings.TrimSpace(r.Name), Value: v}, nil
}

func (t Template) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("template id cannot be empty")
	}
	for i, it := range t.Items {
		if strings.TrimSpace(it.Name) == "" {
			return fmt.Errorf("template %s: item %d has an empty name", t.ID, i)
		}
	}
	return nil
}

// DisplayLabel falls back to the id when no label is configured.
func (t Template) DisplayLabel() string {
	if strings.TrimSpace(t.Label) != "" {
		return t.Label
	}
	return t.ID
}
