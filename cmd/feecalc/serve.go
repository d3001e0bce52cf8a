package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"feecalc/internal/cli"
	"feecalc/internal/config"
	apphttp "feecalc/internal/http"
	applog "feecalc/internal/log"
	"feecalc/internal/session"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the fee calculator web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cli.LoadAndValidateConfig(v)
			if err != nil {
				return err
			}
			logger := cli.SetupLogger(cfg)

			cat, err := cli.LoadCatalog(logger, cfg)
			if err != nil {
				logger.Error("Failed to load template catalog", applog.FieldError, err)
				return err
			}

			pages := session.NewStore(session.Config{
				MaxPages: cfg.MaxPages,
				TTL:      cfg.PageTTL,
			}, cat)

			srv := apphttp.NewServer(apphttp.Config{
				Addr:               ":" + cfg.Port,
				RateLimitPerMinute: cfg.RateLimitPerMinute,
				CleanupInterval:    cfg.CleanupInterval,
			}, pages, logger)

			// Configure server timeouts and limits
			srv.ReadTimeout = 10 * time.Second
			srv.WriteTimeout = 10 * time.Second
			srv.IdleTimeout = 60 * time.Second
			srv.MaxHeaderBytes = 1 << 16 // 64KB

			logger.Info("Starting feecalc server",
				"port", cfg.Port,
				"templates", cat.Len(),
				"page_ttl", cfg.PageTTL.String(),
				applog.FieldOperation, applog.OpStartup)

			return cli.Serve(cmd.Context(), logger, srv, cfg.ShutdownTimeout)
		},
	}

	cmd.Flags().String("port", "", "HTTP port (overrides PORT)")
	_ = v.BindPFlag(config.KeyPort, cmd.Flags().Lookup("port"))

	return cmd
}
