package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"minutes-whisper/internal/api/errors"
	"minutes-whisper/internal/api/v1/dto"
	"minutes-whisper/internal/app/converter"
	apperrors "minutes-whisper/internal/app/errors"
	"minutes-whisper/internal/app/minutes"
)

var safeExt = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

// MinutesServiceImpl implements MinutesService
type MinutesServiceImpl struct {
	converter Converter
	tempDir   string
	logger    *slog.Logger
}

// NewMinutesService creates a minutes service writing uploads under tempDir
func NewMinutesService(c Converter, tempDir string, logger *slog.Logger) *MinutesServiceImpl {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MinutesServiceImpl{
		converter: c,
		tempDir:   tempDir,
		logger:    logger,
	}
}

// Modes lists the output modes in display order
func (s *MinutesServiceImpl) Modes() []dto.ModeResponse {
	return lo.Map(minutes.Modes(), func(m minutes.Mode, _ int) dto.ModeResponse {
		return dto.ModeResponse{ID: string(m), Label: m.Label(), Header: m.Header()}
	})
}

// ProviderName returns the provider jobs run on
func (s *MinutesServiceImpl) ProviderName() string {
	return s.converter.ProviderName()
}

// CreateMinutes runs one job on the uploaded audio
func (s *MinutesServiceImpl) CreateMinutes(ctx context.Context, upload io.Reader, filename string, mode minutes.Mode, observe func(converter.Progress)) (*converter.Result, error) {
	path, err := s.saveUpload(upload, filename)
	if err != nil {
		s.logger.Error("Failed to store upload", "error", err)
		return nil, errors.NewInternalError("failed to store upload")
	}
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("Failed to remove upload", "path", path, "error", err)
		}
	}()

	result, err := s.converter.Convert(ctx, path, mode, observe)
	if err != nil {
		if stderrors.Is(err, apperrors.ErrUnknownMode) {
			return nil, errors.NewValidationError("Validation failed", map[string]string{"mode": err.Error()})
		}
		return nil, errors.NewTranscriptionError(err)
	}
	return result, nil
}

// saveUpload copies the upload to a uniquely named file, keeping a sanitized extension as a format hint for ffmpeg
func (s *MinutesServiceImpl) saveUpload(upload io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if !safeExt.MatchString(ext) {
		ext = ""
	}

	path := filepath.Join(s.tempDir, "upload-"+uuid.NewString()+ext)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}

	if _, err := io.Copy(f, upload); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return path, nil
}
