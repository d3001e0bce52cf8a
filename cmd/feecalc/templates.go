package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"feecalc/internal/catalog"
	"feecalc/internal/config"
)

var idStyle = lipgloss.NewStyle().Bold(true).Width(10)

func newTemplatesCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the available fee templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load(config.FromViper(v).TemplatesFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, t := range cat.Templates() {
				names := make([]string, 0, len(t.Items))
				for _, it := range t.Items {
					names = append(names, it.Name)
				}
				label := ""
				if t.Label != "" && t.Label != t.ID {
					label = mutedStyle.Render(t.Label) + " "
				}
				fmt.Fprintln(out, idStyle.Render(t.ID)+label+strings.Join(names, ", "))
			}
			return nil
		},
	}
}
