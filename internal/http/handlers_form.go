package http

import (
	"bytes"
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"

	"feecalc/internal/core"
	"feecalc/internal/form"
	applog "feecalc/internal/log"
)

const (
	pageTemplate = "index.html"
	formTemplate = "fee_form"
)

// pageData is what index.html and fee_form render.
type pageData struct {
	Token     string
	Templates []templateOption
	Error     string
	form.View
}

// formAction mutates the controller of one page and describes the response.
// A non-empty message is shown above the form.
type formAction func(c *form.Controller, fr FormRequest) (resp *HTMXResponseBuilder, message string)

// handleIndex opens a fresh page. Reloading the page starts over.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := s.pages.New()
	atomic.AddInt64(&s.appMetrics.pagesOpened, 1)

	applog.FromContext(r.Context()).WithComponent(applog.ComponentSession).DebugContext(r.Context(), "Page opened",
		applog.FieldPage, page.Token)

	s.render(w, r, NewHTMXResponse(), pageTemplate, pageData{
		Token: page.Token,
		View:  page.View(),
	})
}

func (s *Server) handleAddField(w http.ResponseWriter, r *http.Request) {
	s.handleFormAction(w, r, applog.OpAddField, func(c *form.Controller, _ FormRequest) (*HTMXResponseBuilder, string) {
		c.AddField()
		return NewHTMXResponse().TriggerFieldsChanged(c.Len()), ""
	})
}

func (s *Server) handleRemoveField(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.handleFormAction(w, r, applog.OpRemoveField, func(c *form.Controller, _ FormRequest) (*HTMXResponseBuilder, string) {
		c.Remove(id)
		return NewHTMXResponse().TriggerFieldsChanged(c.Len()), ""
	})
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	s.handleFormAction(w, r, applog.OpSubmit, func(c *form.Controller, fr FormRequest) (*HTMXResponseBuilder, string) {
		switch o := c.Submit().(type) {
		case form.Ok:
			atomic.AddInt64(&s.appMetrics.calculations, 1)
			s.structuredLogger.LogCalculated(r.Context(), fr.Page, c.Len(), o.Summary.Display, o.Summary.Period)
			return NewHTMXResponse().TriggerCalculated(o.Summary.Display, o.Summary.Period), ""
		case form.ValidationFailed:
			atomic.AddInt64(&s.appMetrics.validationFailures, 1)
			s.structuredLogger.LogValidationFailed(r.Context(), fr.Page, c.Len(), len(o.Errors))
			return NewHTMXResponse().Status(http.StatusUnprocessableEntity), "Please fix the highlighted fields."
		}
		return NewHTMXResponse(), ""
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.handleFormAction(w, r, applog.OpReset, func(c *form.Controller, _ FormRequest) (*HTMXResponseBuilder, string) {
		c.ResetAll()
		return NewHTMXResponse().TriggerFormReset(), ""
	})
}

func (s *Server) handleApplyTemplate(w http.ResponseWriter, r *http.Request) {
	s.handleFormAction(w, r, applog.OpApplyTemplate, func(c *form.Controller, fr FormRequest) (*HTMXResponseBuilder, string) {
		if err := c.ApplyTemplate(fr.Template); err != nil {
			if !errors.Is(err, core.ErrInvalidTemplate) {
				s.structuredLogger.LogError(r.Context(), "Apply template failed", err,
					applog.ComponentForm, applog.OpApplyTemplate, applog.NewFields().WithTemplate(fr.Template))
				return NewHTMXResponse().Status(http.StatusInternalServerError), "Something went wrong."
			}
			applog.FromContext(r.Context()).WithComponent(applog.ComponentForm).WarnContext(r.Context(), "Unknown template requested",
				applog.FieldTemplate, fr.Template,
				applog.FieldPage, fr.Page)
			return NewHTMXResponse().Status(http.StatusUnprocessableEntity), "Unknown template."
		}
		if fr.Template == "" {
			return NewHTMXResponse().TriggerFormReset(), ""
		}
		return NewHTMXResponse().TriggerTemplateApplied(fr.Template), ""
	})
}

// handleFormAction parses the posted form, copies the row inputs into the
// page, runs action under the page lock and renders the result.
func (s *Server) handleFormAction(w http.ResponseWriter, r *http.Request, op string, action formAction) {
	ctx := r.Context()

	fr, errResp := ParseFormRequest(w, r)
	if errResp != nil {
		errResp.Write(w)
		return
	}

	page, err := s.pages.Get(fr.Page)
	if err != nil {
		applog.FromContext(ctx).WithComponent(applog.ComponentSession).InfoContext(ctx, "Unknown page",
			applog.FieldPage, fr.Page,
			applog.FieldOperation, op,
			"error_type", applog.ErrorTypeNotFound)
		GoneError("This page has expired. Reload it to start again.").Write(w)
		return
	}

	var (
		resp    *HTMXResponseBuilder
		message string
		view    form.View
	)
	_ = page.Do(func(c *form.Controller) error {
		c.Sync(fr.Inputs)
		resp, message = action(c, fr)
		view = c.Snapshot()
		return nil
	})
	s.structuredLogger.LogAction(ctx, op, page.Token, len(view.Rows))

	name := pageTemplate
	if isHTMX(r) {
		name = formTemplate
	}
	s.render(w, r, resp, name, pageData{
		Token: page.Token,
		Error: message,
		View:  view,
	})
}

// render executes a template into resp and writes it. The template selector
// is filled from the catalog.
func (s *Server) render(w http.ResponseWriter, r *http.Request, resp *HTMXResponseBuilder, name string, data pageData) {
	if s.templates == nil {
		s.logger.WithComponent(applog.ComponentTemplate).ErrorContext(r.Context(), "Templates not loaded",
			applog.FieldPath, r.URL.Path,
			"error_type", applog.ErrorTypeConfiguration)
		InternalServerError("templates not loaded").Write(w)
		return
	}

	data.Templates = templateOptions(s.pages.Catalog())

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.structuredLogger.LogError(r.Context(), "Template execution failed", err,
			applog.ComponentTemplate, applog.OpRender, applog.NewFields().WithPage(data.Token, len(data.Rows)))
		InternalServerError("Error rendering page").Write(w)
		return
	}

	resp.BodyHTML(buf.String()).Write(w)
}
