package whisper_cpp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minutes-whisper/internal/app/api/provider"
	apperrors "minutes-whisper/internal/app/errors"
)

// fakeWhisper writes a script that mimics whisper.cpp: it finds -of and
// writes two segments plus the received arguments into <of>.txt
const fakeWhisper = `#!/bin/sh
all="$*"
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-of" ]; then out="$2"; fi
  shift
done
printf 'こんにちは。\n今日は晴れ。\n[%s]\n' "$all" > "$out.txt"
`

const failingWhisper = `#!/bin/sh
echo "failed to load model" >&2
exit 3
`

func setup(t *testing.T, script string) (Config, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fixture requires a POSIX shell")
	}

	dir := t.TempDir()
	binary := filepath.Join(dir, "whisper-cli")
	require.NoError(t, os.WriteFile(binary, []byte(script), 0o755))

	model := filepath.Join(dir, "ggml-base.bin")
	require.NoError(t, os.WriteFile(model, []byte("model"), 0o644))

	input := filepath.Join(dir, "chunk.wav")
	require.NoError(t, os.WriteFile(input, []byte("RIFF"), 0o644))

	return Config{BinaryPath: binary, ModelPath: model, TempDir: dir}, input
}

func TestLocalTranscriber_Transcript(t *testing.T) {
	cfg, input := setup(t, fakeWhisper)
	lt := NewLocalTranscriber(cfg, nil)

	require.NoError(t, lt.ValidateConfiguration())

	text, err := lt.Transcript(input)
	require.NoError(t, err)

	assert.Contains(t, text, "こんにちは。今日は晴れ。")
	assert.Contains(t, text, "-l ja")
	assert.Contains(t, text, "--no-gpu")
	assert.Contains(t, text, "-otxt")
}

func TestLocalTranscriber_RequestOptions(t *testing.T) {
	cfg, input := setup(t, fakeWhisper)
	cfg.Threads = 4
	lt := NewLocalTranscriber(cfg, nil)

	resp, err := lt.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{
		InputFilePath:   input,
		Language:        "en",
		ProviderOptions: map[string]interface{}{provider.OptionFP16: true},
	})
	require.NoError(t, err)

	assert.Equal(t, "en", resp.Language)
	assert.Equal(t, "ggml-base.bin", resp.ModelUsed)
	assert.Contains(t, resp.Text, "-l en")
	assert.Contains(t, resp.Text, "-t 4")
	assert.NotContains(t, resp.Text, "--no-gpu")
}

func TestLocalTranscriber_CleansOutputDir(t *testing.T) {
	cfg, input := setup(t, fakeWhisper)
	lt := NewLocalTranscriber(cfg, nil)

	_, err := lt.Transcript(input)
	require.NoError(t, err)

	leftovers, err := filepath.Glob(filepath.Join(cfg.TempDir, "whisper_cpp-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestLocalTranscriber_CommandFailure(t *testing.T) {
	cfg, input := setup(t, failingWhisper)
	lt := NewLocalTranscriber(cfg, nil)

	_, err := lt.Transcript(input)
	require.Error(t, err)

	var te *provider.TranscriptionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "transcription_failed", te.Code)
	assert.Contains(t, te.Message, "failed to load model")
}

func TestLocalTranscriber_MissingInput(t *testing.T) {
	cfg, _ := setup(t, fakeWhisper)
	lt := NewLocalTranscriber(cfg, nil)

	_, err := lt.Transcript(filepath.Join(cfg.TempDir, "missing.wav"))
	assert.Equal(t, "file_not_found", provider.ErrorCode(err))

	_, err = lt.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{})
	assert.Equal(t, "invalid_input", provider.ErrorCode(err))
}

func TestLocalTranscriber_ValidateConfiguration(t *testing.T) {
	cfg, _ := setup(t, fakeWhisper)

	missingModel := cfg
	missingModel.ModelPath = filepath.Join(cfg.TempDir, "nope.bin")
	err := NewLocalTranscriber(missingModel, nil).ValidateConfiguration()
	require.Error(t, err)
	assert.Equal(t, apperrors.KindModel, apperrors.KindOf(err))

	missingBinary := cfg
	missingBinary.BinaryPath = filepath.Join(cfg.TempDir, "no-such-binary")
	err = NewLocalTranscriber(missingBinary, nil).ValidateConfiguration()
	assert.ErrorIs(t, err, apperrors.ErrMissingBinary)
}

func TestCreateWhisperCppProvider(t *testing.T) {
	_, err := createWhisperCppProvider(map[string]interface{}{"model_path": "m.bin"})
	assert.Error(t, err)

	p, err := createWhisperCppProvider(map[string]interface{}{
		"settings": map[string]interface{}{
			"binary_path": "/usr/local/bin/whisper-cli",
			"model_path":  "/models/ggml-base.bin",
			"threads":     float64(2),
		},
	})
	require.NoError(t, err)

	info := p.GetProviderInfo()
	assert.Equal(t, "whisper_cpp", info.Name)
	assert.True(t, info.RequiresBinary)
	assert.Equal(t, provider.ProviderTypeLocal, info.Type)
}

func TestJoinSegments(t *testing.T) {
	assert.Equal(t, "こんにちは。世界。", joinSegments("こんにちは。\r\n世界。\n"))
	assert.Equal(t, "Hello world.", joinSegments(" Hello\n world.\n"))
	assert.Equal(t, "", joinSegments("\n\n"))
}
