package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"minutes-whisper/cmd/minutes/cmd/common"
	"minutes-whisper/internal/api/server"
	"minutes-whisper/internal/app"
	"minutes-whisper/internal/config"
)

var (
	host string
	port string
)

func init() {
	Cmd.Flags().StringVar(&host, "host", "", "listen host (overrides MINUTES_HOST)")
	Cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides MINUTES_PORT)")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the minutes web UI and HTTP API",
	Long: `Start the minutes web UI and HTTP API

- GET /            upload page
- POST /api/v1/minutes  run a job (plain text or server-sent events)
- GET /metrics     Prometheus metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, logger, err := common.LoadSettings(func(s *config.Settings) {
			if host != "" {
				s.Host = host
			}
			if port != "" {
				s.Port = port
			}
		})
		if err != nil {
			return err
		}

		application, err := app.InitializeApplication(settings, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		cfg := server.DefaultConfig()
		cfg.Host = settings.Host
		cfg.Port = settings.Port
		cfg.Environment = settings.Env
		cfg.MaxUploadBytes = settings.MaxUploadBytes()
		cfg.TempDir = settings.TempDir

		srv := server.NewServer(cfg, server.Dependencies{
			Converter: application.Converter,
			Registry:  application.Registry,
			Stats:     application.Stats,
			Metrics:   application.Metrics,
			Logger:    logger,
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return srv.Run(ctx)
	},
}
