package audio

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Decoder turns an uploaded audio file of any container/codec into a canonical waveform.
type Decoder interface {
	Decode(ctx context.Context, inputFilePath string) (Waveform, error)
}

// FFmpegDecoder resamples input through the ffmpeg binary, the same way whisper loads audio.
type FFmpegDecoder struct {
	ffmpegPath string
	sampleRate int
	tempDir    string
	logger     *slog.Logger
}

// NewFFmpegDecoder creates a decoder. An empty ffmpegPath resolves "ffmpeg" from PATH.
func NewFFmpegDecoder(ffmpegPath, tempDir string, logger *slog.Logger) *FFmpegDecoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FFmpegDecoder{
		ffmpegPath: ffmpegPath,
		sampleRate: SampleRate,
		tempDir:    tempDir,
		logger:     logger,
	}
}

// Decode converts inputFilePath to a 16 kHz mono WAV next to the other transient files and reads it back.
func (d *FFmpegDecoder) Decode(ctx context.Context, inputFilePath string) (Waveform, error) {
	if _, err := os.Stat(inputFilePath); err != nil {
		return Waveform{}, fmt.Errorf("input audio not readable: %w", err)
	}

	tmp, err := os.CreateTemp(d.tempDir, "minutes-*_16khz.wav")
	if err != nil {
		return Waveform{}, fmt.Errorf("failed to create temporary WAV file: %w", err)
	}
	outputWavPath := tmp.Name()
	tmp.Close()
	defer os.Remove(outputWavPath)

	if err := ConvertTo16kHzWav(ctx, d.ffmpegPath, inputFilePath, outputWavPath, d.sampleRate); err != nil {
		return Waveform{}, err
	}

	wf, err := ReadWAVFile(outputWavPath)
	if err != nil {
		return Waveform{}, err
	}
	if wf.SampleRate != d.sampleRate {
		return Waveform{}, fmt.Errorf("unexpected sample rate %d after resampling", wf.SampleRate)
	}

	d.logger.Debug("Audio decoded",
		"input", inputFilePath,
		"samples", wf.Len(),
		"duration", wf.Duration().String(),
	)
	return wf, nil
}

// ConvertTo16kHzWav runs ffmpeg to produce a mono 16-bit PCM WAV at sampleRate.
func ConvertTo16kHzWav(ctx context.Context, ffmpegPath, inputAudioFilePath, outputWavPath string, sampleRate int) error {
	args := []string{
		"-nostdin",
		"-y",
		"-i", inputAudioFilePath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"-f", "wav",
		outputWavPath,
	}

	cmd := exec.CommandContext(ctx, ffmpegPath, args...)

	// ffmpeg reports codec problems on stderr only
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("FFmpeg error: %v, stderr: %s", err, lastLines(stderr.String(), 5))
	}
	return nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
