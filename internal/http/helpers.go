package http

import (
	"strings"

	"feecalc/internal/catalog"
)

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// templateOption is one entry of the template selector.
type templateOption struct {
	ID    string
	Label string
}

// templateOptions lists the catalog in selector order.
func templateOptions(cat *catalog.Catalog) []templateOption {
	if cat == nil {
		return nil
	}
	tpls := cat.Templates()
	opts := make([]templateOption, 0, len(tpls))
	for _, t := range tpls {
		opts = append(opts, templateOption{ID: t.ID, Label: t.DisplayLabel()})
	}
	return opts
}
