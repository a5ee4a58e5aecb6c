package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"minutes-whisper/cmd/minutes/cmd/common"
	"minutes-whisper/cmd/minutes/cmd/providers"
	"minutes-whisper/cmd/minutes/cmd/serve"
	"minutes-whisper/cmd/minutes/cmd/transcribe"
	"minutes-whisper/cmd/minutes/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "minutes",
	Short: "Turn meeting recordings into transcripts and minutes",
	Long: `Turn meeting recordings into transcripts and minutes.

- serve starts the browser UI and the HTTP API
- transcribe runs one recording from the terminal and writes minutes.txt
- Supports whisper.cpp, a whisper.cpp server, OpenAI Whisper and Gemini as engines`,
	TraverseChildren: true,
	SilenceUsage:     true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(providers.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&common.Verbose, "verbose", "V", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&common.ProviderOverride, "provider", "", "transcription provider (overrides MINUTES_PROVIDER)")
	rootCmd.PersistentFlags().StringVar(&common.ProvidersConfigOverride, "providers-config", "", "YAML provider file (overrides MINUTES_PROVIDERS_CONFIG)")
}
