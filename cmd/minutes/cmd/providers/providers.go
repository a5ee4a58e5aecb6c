package providers

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"minutes-whisper/cmd/minutes/cmd/common"
	"minutes-whisper/internal/app"
	"minutes-whisper/internal/app/api/provider"
	appconfig "minutes-whisper/internal/app/config"
)

var force bool

func init() {
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	Cmd.AddCommand(initCmd)
}

// Cmd represents the providers command
var Cmd = &cobra.Command{
	Use:   "providers",
	Short: "List transcription providers and check the configured ones",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "Available provider types:")
		for _, name := range provider.ListRegisteredProviders() {
			fmt.Fprintf(out, "  - %s\n", name)
		}

		settings, logger, err := common.LoadSettings()
		if err != nil {
			return err
		}
		application, err := app.InitializeApplication(settings, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize providers: %w", err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()
		health := application.Registry.HealthCheckAll(ctx)

		fmt.Fprintln(out, "\nConfigured providers:")
		for _, name := range application.Registry.ListProviders() {
			marker := ""
			if name == application.Registry.DefaultName() {
				marker = " (default)"
			}
			if err := health[name]; err != nil {
				fmt.Fprintf(out, "  ✗ %s%s: %v\n", name, marker, err)
				continue
			}
			fmt.Fprintf(out, "  ✓ %s%s\n", name, marker)
		}
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write an example providers.yaml",
	Long: `Write an example providers.yaml

The file enables whisper_cpp and lists the other providers disabled, with
API keys read from the environment via ${VAR} placeholders.
Without a path it is written to the default location (MINUTES_PROVIDERS_CONFIG
or ~/.minutes-whisper/providers.yaml).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := appconfig.GetDefaultConfigPath()
		if len(args) == 1 {
			path = args[0]
		}

		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}

		if err := appconfig.SaveProvidersConfig(appconfig.CreateDefaultConfig(), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}
