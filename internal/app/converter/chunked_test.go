package converter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minutes-whisper/internal/app/api/provider"
	"minutes-whisper/internal/app/audio"
	apperrors "minutes-whisper/internal/app/errors"
	"minutes-whisper/internal/app/testutil"
	"minutes-whisper/internal/metrics"
)

// 1 s windows at 100 Hz keep fixtures small
const testRate = 100

func newTranscriber(t *testing.T, p provider.TranscriptionProvider) *ChunkedTranscriber {
	t.Helper()
	return NewChunkedTranscriber(p, Options{ChunkSeconds: 1, TempDir: t.TempDir()}, nil)
}

func TestChunkedTranscriber_StreamYieldsAfterEveryChunk(t *testing.T) {
	p := testutil.NewScriptedProvider("scripted", "一。", "二。", "三。")
	ct := newTranscriber(t, p)

	var got []Progress
	for prog, err := range ct.Stream(context.Background(), testutil.RampWaveform(250, testRate)) {
		require.NoError(t, err)
		// the provider has not been asked for the next chunk yet
		assert.Equal(t, prog.Chunk, p.CallCount())
		got = append(got, prog)
	}

	require.Len(t, got, 3)
	assert.Equal(t, "一。\n", got[0].Text)
	assert.Equal(t, "一。\n二。\n", got[1].Text)
	assert.Equal(t, "一。\n二。\n三。\n", got[2].Text)

	assert.InDelta(t, 1.0/3.0, got[0].Fraction, 1e-9)
	assert.InDelta(t, 2.0/3.0, got[1].Fraction, 1e-9)
	assert.Equal(t, 1.0, got[2].Fraction)

	for i, prog := range got {
		assert.Equal(t, i+1, prog.Chunk)
		assert.Equal(t, 3, prog.Chunks)
		assert.Equal(t, i, prog.Segment.Index)
	}
	assert.Equal(t, 2*time.Second, got[2].Segment.Start)
	assert.Equal(t, 2500*time.Millisecond, got[2].Segment.End)
}

func TestChunkedTranscriber_SendsChunkSamplesInOrder(t *testing.T) {
	wf := testutil.RampWaveform(250, testRate)
	p := testutil.NewScriptedProvider("scripted")
	ct := newTranscriber(t, p)

	_, segments, err := ct.Transcribe(context.Background(), wf)
	require.NoError(t, err)
	require.Len(t, segments, 3)

	calls := p.Calls()
	require.Len(t, calls, 3)

	var rebuilt []float32
	for _, c := range calls {
		require.NoError(t, c.ReadErr)
		assert.Equal(t, "ja", c.Request.Language)
		assert.False(t, c.Request.FP16())
		rebuilt = append(rebuilt, c.Samples...)
	}
	assert.Len(t, calls[2].Samples, 50)
	assert.Equal(t, wf.Samples, rebuilt)
}

func TestChunkedTranscriber_EmptyWaveform(t *testing.T) {
	p := testutil.NewScriptedProvider("scripted")
	ct := newTranscriber(t, p)

	text, segments, err := ct.Transcribe(context.Background(), audio.Waveform{SampleRate: audio.SampleRate})
	require.NoError(t, err)
	assert.Equal(t, "", text)
	assert.Empty(t, segments)
	assert.Zero(t, p.CallCount())
}

func TestChunkedTranscriber_FailureOnSecondOfThree(t *testing.T) {
	cause := errors.New("model crashed")
	p := testutil.NewScriptedProvider("scripted", "a", "b", "c").FailingOn(1, cause)
	ct := newTranscriber(t, p)

	var (
		progress []Progress
		errs     []error
	)
	for prog, err := range ct.Stream(context.Background(), testutil.RampWaveform(300, testRate)) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		progress = append(progress, prog)
	}

	require.Len(t, errs, 1)
	assert.Len(t, progress, 1)
	assert.Equal(t, 2, p.CallCount(), "no chunk after the failing one is attempted")
	assert.ErrorIs(t, errs[0], cause)
	assert.Equal(t, apperrors.KindChunk, apperrors.KindOf(errs[0]))
	assert.Equal(t, 1, apperrors.ChunkOf(errs[0]))

	text, segments, err := newTranscriber(t, testutil.NewScriptedProvider("s").FailingOn(1, cause)).
		Transcribe(context.Background(), testutil.RampWaveform(300, testRate))
	require.Error(t, err)
	assert.Empty(t, text)
	assert.Nil(t, segments)
}

func TestChunkedTranscriber_StopsWhenConsumerBreaks(t *testing.T) {
	p := testutil.NewScriptedProvider("scripted")
	ct := newTranscriber(t, p)

	for range ct.Stream(context.Background(), testutil.RampWaveform(500, testRate)) {
		break
	}
	assert.Equal(t, 1, p.CallCount())
}

func TestChunkedTranscriber_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := testutil.NewScriptedProvider("scripted")
	_, _, err := newTranscriber(t, p).Transcribe(ctx, testutil.RampWaveform(200, testRate))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, apperrors.ChunkOf(err))
	assert.Zero(t, p.CallCount())
}

func TestChunkedTranscriber_RemovesChunkFiles(t *testing.T) {
	dir := t.TempDir()
	p := testutil.NewScriptedProvider("scripted")
	ct := NewChunkedTranscriber(p, Options{ChunkSeconds: 1, TempDir: dir}, nil)

	_, _, err := ct.Transcribe(context.Background(), testutil.RampWaveform(150, testRate))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	for _, c := range p.Calls() {
		_, statErr := os.Stat(c.Request.InputFilePath)
		assert.True(t, os.IsNotExist(statErr), filepath.Base(c.Request.InputFilePath))
	}
}

func TestChunkedTranscriber_Defaults(t *testing.T) {
	ct := NewChunkedTranscriber(testutil.NewScriptedProvider("scripted"), Options{}, nil)
	assert.Equal(t, audio.DefaultChunkSeconds, ct.opts.ChunkSeconds)
	assert.Equal(t, "ja", ct.opts.Language)
	assert.False(t, ct.opts.FP16)
}

func TestChunkedTranscriber_RecordsMetrics(t *testing.T) {
	m := metrics.NewMetricsWithRegistry(prometheus.NewRegistry())
	stats := provider.NewProviderMetrics()
	p := testutil.NewScriptedProvider("scripted").FailingOn(2, provider.NewTranscriptionError("scripted", "timeout", "slow", true))

	ct := newTranscriber(t, p).WithMetrics(m, stats)
	_, _, err := ct.Transcribe(context.Background(), testutil.RampWaveform(300, testRate))
	require.Error(t, err)

	assert.Equal(t, 2.0, promtest.ToFloat64(m.ChunksTranscribed.WithLabelValues("scripted", "success")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.ChunksTranscribed.WithLabelValues("scripted", "failure")))

	s := stats.GetProviderMetrics("scripted")
	assert.Equal(t, int64(2), s.SuccessfulRequests)
	assert.Equal(t, int64(1), s.ErrorBreakdown["timeout"])
	assert.InDelta(t, 2.0, s.TotalAudioProcessed, 1e-9)
}
