package whisper_cpp

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"minutes-whisper/internal/app/api/provider"
	apperrors "minutes-whisper/internal/app/errors"
)

const providerName = "whisper_cpp"

// Config holds the settings of a local whisper.cpp installation
type Config struct {
	BinaryPath string        `yaml:"binary_path"`
	ModelPath  string        `yaml:"model_path"`
	Language   string        `yaml:"language"`
	Prompt     string        `yaml:"prompt"`
	Threads    int           `yaml:"threads"`
	FP16       bool          `yaml:"fp16"`
	TempDir    string        `yaml:"temp_dir"`
	Timeout    time.Duration `yaml:"timeout"`
}

// LocalTranscriber implements local transcription, using local binary commands.
type LocalTranscriber struct {
	provider.BaseProvider
	config Config
	logger *slog.Logger
}

// NewLocalTranscriber creates a new instance of LocalTranscriber.
func NewLocalTranscriber(config Config, logger *slog.Logger) *LocalTranscriber {
	if config.Language == "" {
		config.Language = "ja"
	}
	if config.TempDir == "" {
		config.TempDir = os.TempDir()
	}
	if logger == nil {
		logger = slog.Default()
	}

	base := provider.NewBaseProvider(providerName, "Whisper.cpp (Local)", provider.ProviderTypeLocal, "1.0.0")
	base.RequiresBinary = true
	base.DefaultModel = "ggml-base.bin"

	return &LocalTranscriber{
		BaseProvider: base,
		config:       config,
		logger:       logger.With("provider", providerName),
	}
}

// Transcript runs the binary on a WAV file with the configured defaults
func (lt *LocalTranscriber) Transcript(inputFilePath string) (string, error) {
	resp, err := lt.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{InputFilePath: inputFilePath})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// TranscriptWithOptions runs whisper.cpp and reads back its txt output.
func (lt *LocalTranscriber) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	startTime := time.Now()

	if request.InputFilePath == "" {
		return nil, provider.NewTranscriptionError(providerName, "invalid_input", "input file path is required", false)
	}
	if _, err := os.Stat(request.InputFilePath); err != nil {
		return nil, provider.NewTranscriptionError(providerName, "file_not_found",
			fmt.Sprintf("input file not found: %s", request.InputFilePath), false)
	}

	language := lt.config.Language
	if request.Language != "" {
		language = request.Language
	}
	prompt := lt.config.Prompt
	if request.Prompt != "" {
		prompt = request.Prompt
	}
	fp16 := lt.config.FP16
	if _, ok := request.ProviderOptions[provider.OptionFP16]; ok {
		fp16 = request.FP16()
	}

	outDir, err := os.MkdirTemp(lt.config.TempDir, "whisper_cpp-*")
	if err != nil {
		return nil, provider.NewTranscriptionError(providerName, "temp_dir_error",
			fmt.Sprintf("failed to create temp directory: %v", err), true)
	}
	defer os.RemoveAll(outDir)

	outputFile := filepath.Join(outDir, "transcription")
	args := lt.buildArgs(request.InputFilePath, outputFile, language, prompt, fp16)

	if lt.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, lt.config.Timeout)
		defer cancel()
	}

	command := exec.CommandContext(ctx, lt.config.BinaryPath, args...)
	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	lt.logger.Debug("Running transcription command", "binary", lt.config.BinaryPath, "args", strings.Join(args, " "))

	if err := command.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, provider.NewTranscriptionError(providerName, "transcription_failed",
			fmt.Sprintf("command execution error: %v, stderr: %s", err, strings.TrimSpace(stderr.String())), true)
	}

	output, err := os.ReadFile(outputFile + ".txt")
	if err != nil {
		return nil, provider.NewTranscriptionError(providerName, "output_missing",
			fmt.Sprintf("failed to read output file: %v", err), false)
	}

	return &provider.TranscriptionResponse{
		Text:           joinSegments(string(output)),
		Language:       language,
		ProcessingTime: time.Since(startTime),
		ModelUsed:      filepath.Base(lt.config.ModelPath),
		ProviderMetadata: map[string]interface{}{
			"binary_path": lt.config.BinaryPath,
			"fp16":        fp16,
		},
	}, nil
}

func (lt *LocalTranscriber) buildArgs(input, outputFile, language, prompt string, fp16 bool) []string {
	args := []string{
		"-m", lt.config.ModelPath,
		"-l", language,
		"-otxt",
		"-f", input,
		"-of", outputFile,
	}
	if prompt != "" {
		args = append(args, "--prompt", prompt)
	}
	if lt.config.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(lt.config.Threads))
	}
	// whisper.cpp only runs half precision on the GPU
	if !fp16 {
		args = append(args, "--no-gpu")
	}
	return args
}

// joinSegments concatenates the per-line segments of a whisper.cpp txt file
func joinSegments(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	return strings.TrimSpace(strings.ReplaceAll(raw, "\n", ""))
}

// ValidateConfiguration checks that the binary and model are present
func (lt *LocalTranscriber) ValidateConfiguration() error {
	if lt.config.BinaryPath == "" {
		return apperrors.ErrMissingBinary
	}
	if _, err := exec.LookPath(lt.config.BinaryPath); err != nil {
		return fmt.Errorf("%w: whisper.cpp binary not usable at %s: %v", apperrors.ErrMissingBinary, lt.config.BinaryPath, err)
	}
	if lt.config.ModelPath == "" {
		return apperrors.RequiredField("model_path")
	}
	if _, err := os.Stat(lt.config.ModelPath); err != nil {
		return apperrors.Model(fmt.Errorf("whisper model not found at %s", lt.config.ModelPath))
	}
	return nil
}

// HealthCheck performs a health check on the provider
func (lt *LocalTranscriber) HealthCheck(ctx context.Context) error {
	if err := lt.ValidateConfiguration(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return ctx.Err()
}
