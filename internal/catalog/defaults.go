package catalog

import "feecalc/internal/core"

// DefaultTemplates returns the built-in starter sets used when no catalog
// file is configured.
func DefaultTemplates() []core.Template {
	return []core.Template{
		{
			ID:    "KL",
			Label: "KL",
			Items: []core.TemplateItem{
				{Name: "Rent"},
				{Name: "Electricity"},
				{Name: "Water"},
				{Name: "Internet"},
				{Name: "Service fee"},
			},
		},
		{
			ID:    "Royal",
			Label: "Royal",
			Items: []core.TemplateItem{
				{Name: "Rent"},
				{Name: "Electricity"},
				{Name: "Water"},
				{Name: "Internet"},
				{Name: "Management fee"},
				{Name: "Parking"},
			},
		},
	}
}

// Default returns a catalog of the built-in templates.
func Default() *Catalog {
	c, err := New(DefaultTemplates())
	if err != nil {
		// built-in data is fixed; a failure here is a programming error
		panic(err)
	}
	return c
}
