package main

import (
	"fmt"
	"os"

	"minutes-whisper/cmd/minutes/cmd"
	"minutes-whisper/internal/config"
)

func main() {
	// A broken .env is reported but does not stop the CLI; settings fall back to the environment
	if _, err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  Configuration Warning: %v\n", err)
	}

	cmd.Execute()
}
