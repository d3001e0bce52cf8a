// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing the posted fee form. Every
// action posts the whole form so the rows on the server always match what
// the user sees.

package http

import (
	"net/http"
	"net/url"
	"strings"

	"feecalc/internal/form"
)

// maxFormBytes bounds the size of a posted form.
const maxFormBytes = 64 << 10

const (
	formKeyPage     = "page"
	formKeyTemplate = "template"
	fieldsPrefix    = "fields["
)

// FormRequest is one posted form action.
type FormRequest struct {
	Page     string
	Template string
	Inputs   map[string]form.Input
}

// ParseFormRequest parses the page token, the selected template and the row
// inputs of r. It returns an error response when the body is not a form.
func ParseFormRequest(w http.ResponseWriter, r *http.Request) (FormRequest, *HTMXResponseBuilder) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return FormRequest{}, BadRequestError("Invalid request format")
	}
	return FormRequest{
		Page:     strings.TrimSpace(r.PostForm.Get(formKeyPage)),
		Template: strings.TrimSpace(r.PostForm.Get(formKeyTemplate)),
		Inputs:   ParseFieldInputs(r.PostForm),
	}, nil
}

// ParseFieldInputs collects fields[<id>].name and fields[<id>].value pairs.
// Keys that do not follow that shape are ignored. A row with only one of the
// two inputs gets an empty string for the other.
func ParseFieldInputs(values url.Values) map[string]form.Input {
	inputs := make(map[string]form.Input)
	for key, vals := range values {
		id, part, ok := splitFieldKey(key)
		if !ok || len(vals) == 0 {
			continue
		}
		in := inputs[id]
		switch part {
		case "name":
			in.Name = sanitizeInput(vals[0])
		case "value":
			in.Value = strings.TrimSpace(vals[0])
		default:
			continue
		}
		inputs[id] = in
	}
	return inputs
}

// splitFieldKey splits "fields[abc].name" into ("abc", "name").
func splitFieldKey(key string) (id, part string, ok bool) {
	if !strings.HasPrefix(key, fieldsPrefix) {
		return "", "", false
	}
	rest := key[len(fieldsPrefix):]
	end := strings.Index(rest, "].")
	if end <= 0 {
		return "", "", false
	}
	id, part = rest[:end], rest[end+2:]
	if strings.ContainsAny(id, "[]") || part == "" {
		return "", "", false
	}
	return id, part, true
}

// isHTMX reports whether r was issued by htmx and expects a partial.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
