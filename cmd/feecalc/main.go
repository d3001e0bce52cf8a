package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"feecalc/internal/cli"
	"feecalc/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()

	root := &cobra.Command{
		Use:   "feecalc",
		Short: "Add up a list of named fees",
		Long: `Fee Calculator keeps a list of named fee items, fills it from predefined
templates and sums the values. Run "feecalc serve" for the web page or
"feecalc calc" to total fees from the command line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cli.LoadEnvFile()
		},
	}

	flags := root.PersistentFlags()
	flags.String("templates-file", "", "YAML template catalog (default: built-in templates)")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: text or json")
	for key, name := range map[string]string{
		config.KeyTemplatesFile: "templates-file",
		config.KeyLogLevel:      "log-level",
		config.KeyLogFormat:     "log-format",
	} {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}

	root.AddCommand(
		newServeCmd(v),
		newCalcCmd(v),
		newTemplatesCmd(v),
	)
	return root
}
