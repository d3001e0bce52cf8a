package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"feecalc/internal/catalog"
	"feecalc/internal/config"
	"feecalc/internal/core"
	"feecalc/internal/form"
	"feecalc/internal/validation"
)

var errValidationFailed = errors.New("some fees are invalid")

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(lipgloss.Color("63")).
			Foreground(lipgloss.Color("230"))

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	nameStyle  = lipgloss.NewStyle().Width(24)
	valueStyle = lipgloss.NewStyle().Width(16).Align(lipgloss.Right)
	totalStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func newCalcCmd(v *viper.Viper) *cobra.Command {
	var templateID string

	cmd := &cobra.Command{
		Use:   "calc [name=value ...]",
		Short: "Total a list of fees",
		Long: `Total a list of fees given as name=value pairs.

With --template the list starts from that template and the arguments are
the values of its fields, in template order.`,
		Example: `  feecalc calc Rent=1200 Water=35.5
  feecalc calc --template KL 1200 80 35.5 40 15`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromViper(v)
			cat, err := catalog.Load(cfg.TemplatesFile)
			if err != nil {
				return err
			}

			outcome, rows, err := calculate(cat, templateID, args, time.Now)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch o := outcome.(type) {
			case form.Ok:
				printSummary(out, o.Summary)
			case form.ValidationFailed:
				printErrors(out, rows, o.Errors)
				return errValidationFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&templateID, "template", "t", "", "start from a template; arguments are its values in order")
	return cmd
}

// calculate builds a fee list from args and submits it.
func calculate(cat *catalog.Catalog, templateID string, args []string, now func() time.Time) (form.Outcome, []core.Row, error) {
	ctrl := form.New(cat, form.WithClock(now))

	if templateID != "" {
		if err := ctrl.ApplyTemplate(templateID); err != nil {
			return nil, nil, err
		}
		rows := ctrl.Rows()
		if len(args) > len(rows) {
			return nil, nil, fmt.Errorf("template %s has %d fields, got %d values", templateID, len(rows), len(args))
		}
		for i, value := range args {
			ctrl.Update(rows[i].ID, form.Input{Name: rows[i].Name, Value: value})
		}
	} else {
		for _, arg := range args {
			name, value, ok := strings.Cut(arg, "=")
			if !ok {
				return nil, nil, fmt.Errorf("invalid argument %q: want name=value", arg)
			}
			id := ctrl.AddField()
			ctrl.Update(id, form.Input{Name: name, Value: value})
		}
	}

	outcome := ctrl.Submit()
	return outcome, ctrl.Rows(), nil
}

func printSummary(w io.Writer, s core.Summary) {
	lines := []string{titleStyle.Render("Fees"), ""}
	for _, it := range s.Items {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			nameStyle.Render(it.Name),
			valueStyle.Render(core.FormatNumber(it.Value.InexactFloat64()))))
	}
	lines = append(lines, "")
	if core.ShowTotal(s.Display) {
		lines = append(lines,
			lipgloss.JoinHorizontal(lipgloss.Top,
				nameStyle.Inherit(totalStyle).Render("Total"),
				valueStyle.Inherit(totalStyle).Render(s.Display)),
			lipgloss.JoinHorizontal(lipgloss.Top,
				nameStyle.Render("Date"),
				valueStyle.Render(s.Period)))
	} else {
		lines = append(lines, mutedStyle.Render("Nothing to total"))
	}
	fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))
}

func printErrors(w io.Writer, rows []core.Row, errs map[string][]validation.FieldError) {
	lines := []string{titleStyle.Render("Fees"), ""}
	for i, r := range rows {
		problems, ok := errs[r.ID]
		if !ok {
			continue
		}
		label := strings.TrimSpace(r.Name)
		if label == "" {
			label = fmt.Sprintf("Field %d", i+1)
		}
		for _, p := range problems {
			lines = append(lines, nameStyle.Render(label)+errorStyle.Render(p.Message))
		}
	}
	fmt.Fprintln(w, boxStyle.Render(strings.Join(lines, "\n")))
}
