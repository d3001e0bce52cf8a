// Package catalog holds the predefined fee templates a page can be
// pre-populated from. A Catalog is built once at startup and never mutated.
package catalog

import (
	"fmt"

	"feecalc/internal/core"
)

// Catalog is an immutable, ordered set of templates keyed by id.
type Catalog struct {
	order []string
	byID  map[string]core.Template
}

// New builds a catalog from templates, preserving their order for selectors.
func New(templates []core.Template) (*Catalog, error) {
	c := &Catalog{
		order: make([]string, 0, len(templates)),
		byID:  make(map[string]core.Template, len(templates)),
	}
	for _, t := range templates {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate template id %q", t.ID)
		}
		c.order = append(c.order, t.ID)
		c.byID[t.ID] = clone(t)
	}
	return c, nil
}

// Lookup returns a copy of the template with the given id. Unknown ids
// return core.ErrInvalidTemplate.
func (c *Catalog) Lookup(id string) (core.Template, error) {
	t, ok := c.byID[id]
	if !ok {
		return core.Template{}, fmt.Errorf("%w: %q", core.ErrInvalidTemplate, id)
	}
	return clone(t), nil
}

// IDs returns template ids in selector order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Templates returns copies of every template in selector order.
func (c *Catalog) Templates() []core.Template {
	out := make([]core.Template, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, clone(c.byID[id]))
	}
	return out
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	return len(c.order)
}

func clone(t core.Template) core.Template {
	items := make([]core.TemplateItem, len(t.Items))
	copy(items, t.Items)
	t.Items = items
	return t
}
