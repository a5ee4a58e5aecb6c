package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"minutes-whisper/cmd/minutes/cmd/common"
	apierrors "minutes-whisper/internal/api/errors"
	"minutes-whisper/internal/app"
	"minutes-whisper/internal/app/converter"
	"minutes-whisper/internal/app/converter/export"
	"minutes-whisper/internal/app/minutes"
	"minutes-whisper/internal/downloader"
)

var (
	mode           string
	outputFilePath string
	segmentsPath   string
	remoteURL      string
	forceProgress  bool
)

func init() {
	Cmd.Flags().StringVarP(&mode, "mode", "m", string(minutes.ModeFull), "output mode: full, conversation or points")
	Cmd.Flags().StringVarP(&outputFilePath, "output", "o", minutes.DownloadFileName, "where to write the minutes document")
	Cmd.Flags().StringVar(&segmentsPath, "segments", "", "also export per-chunk text with timestamps to this .xlsx file")
	Cmd.Flags().StringVarP(&remoteURL, "url", "u", "", "download the recording from a URL or an episode page instead of a local file")
	Cmd.Flags().BoolVar(&forceProgress, "progress", false, "show the progress bar even when stderr is not a terminal")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe [audio file]",
	Short: "Transcribe one recording and write the minutes document",
	Long: `Transcribe one recording and write the minutes document

- The recording is decoded to 16 kHz mono and transcribed in fixed windows
- The transcript is rendered with the selected mode and saved as text
- --segments additionally exports every window with its time span to Excel`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if (len(args) == 0) == (remoteURL == "") {
			return errors.New("pass either an audio file or --url")
		}

		m, err := minutes.ParseMode(mode)
		if err != nil {
			return err
		}

		settings, logger, err := common.LoadSettings()
		if err != nil {
			return err
		}

		application, err := app.InitializeApplication(settings, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var inputPath string
		if remoteURL != "" {
			fetcher := downloader.NewFetcher(nil, settings.MaxUploadBytes(), logger)
			inputPath, err = fetcher.Fetch(ctx, remoteURL, settings.TempDir)
			if err != nil {
				return err
			}
			defer os.Remove(inputPath)
		} else {
			inputPath = args[0]
			if _, err := os.Stat(inputPath); err != nil {
				return fmt.Errorf("cannot read %s: %w", inputPath, err)
			}
		}

		pm := converter.NewProgressManager(converter.ProgressConfig{
			Enabled: converter.ShouldShowProgress(forceProgress),
			Writer:  os.Stderr,
		})
		bar := pm.CreateBar(0, filepath.Base(inputPath))

		result, err := application.Converter.Convert(ctx, inputPath, m, bar.Observe)
		if err != nil {
			bar.Abort()
			pm.Wait()
			return fmt.Errorf("%s: %w", apierrors.TranscriptionFailedMessage, err)
		}
		bar.Complete()
		pm.Wait()

		if err := export.WriteDocument(outputFilePath, result.Document); err != nil {
			return err
		}
		if segmentsPath != "" {
			if err := export.ToExcel(result.Segments, segmentsPath); err != nil {
				return fmt.Errorf("failed to export segments: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n", minutes.DoneMessage)
		fmt.Fprintf(out, "minutes: %s (%s, %d chunks, audio %s, took %s)\n",
			outputFilePath, m.Label(), len(result.Segments), result.Audio, result.Elapsed.Round(time.Millisecond))
		if segmentsPath != "" {
			fmt.Fprintf(out, "segments: %s\n", segmentsPath)
		}
		return nil
	},
}
