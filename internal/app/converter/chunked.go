package converter

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"minutes-whisper/internal/app/api/provider"
	"minutes-whisper/internal/app/audio"
	apperrors "minutes-whisper/internal/app/errors"
	"minutes-whisper/internal/metrics"
)

// Progress is surfaced after every chunk, before the next one starts.
type Progress struct {
	Text     string  // transcript accumulated so far
	Fraction float64 // Chunk / Chunks
	Chunk    int     // chunks completed, 1-based
	Chunks   int
	Segment  Segment // the chunk just transcribed
}

// Segment is the text recognised for one chunk and the audio span it covers.
type Segment struct {
	Index int
	Start time.Duration
	End   time.Duration
	Text  string
}

// Options controls how a waveform is cut and what is asked of the provider.
type Options struct {
	ChunkSeconds int
	Language     string
	FP16         bool
	TempDir      string
}

// DefaultOptions mirrors the defaults of the hosted tool: 30 s windows, Japanese, fp32.
func DefaultOptions() Options {
	return Options{
		ChunkSeconds: audio.DefaultChunkSeconds,
		Language:     "ja",
	}
}

// ChunkedTranscriber feeds fixed windows of a waveform to one provider, strictly in order.
type ChunkedTranscriber struct {
	provider     provider.TranscriptionProvider
	providerName string
	opts         Options
	logger       *slog.Logger
	metrics      *metrics.Metrics
	stats        provider.ProviderMetrics
}

// NewChunkedTranscriber creates a transcriber. Zero option fields take DefaultOptions values.
func NewChunkedTranscriber(p provider.TranscriptionProvider, opts Options, logger *slog.Logger) *ChunkedTranscriber {
	defaults := DefaultOptions()
	if opts.ChunkSeconds <= 0 {
		opts.ChunkSeconds = defaults.ChunkSeconds
	}
	if opts.Language == "" {
		opts.Language = defaults.Language
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ChunkedTranscriber{
		provider:     p,
		providerName: p.GetProviderInfo().Name,
		opts:         opts,
		logger:       logger,
	}
}

// WithMetrics attaches collectors; either may be nil.
func (ct *ChunkedTranscriber) WithMetrics(m *metrics.Metrics, stats provider.ProviderMetrics) *ChunkedTranscriber {
	ct.metrics = m
	ct.stats = stats
	return ct
}

// Stream yields one Progress per chunk. The first error ends the sequence and is
// tagged with the failing chunk. An empty waveform yields nothing.
func (ct *ChunkedTranscriber) Stream(ctx context.Context, wf audio.Waveform) iter.Seq2[Progress, error] {
	return func(yield func(Progress, error) bool) {
		chunks, err := wf.Split(ct.opts.ChunkSeconds)
		if err != nil {
			yield(Progress{}, apperrors.Decode(err))
			return
		}
		if len(chunks) == 0 {
			return
		}

		dir, err := os.MkdirTemp(ct.opts.TempDir, "minutes-chunks-*")
		if err != nil {
			yield(Progress{}, apperrors.Chunk(0, fmt.Errorf("failed to create chunk directory: %w", err)))
			return
		}
		defer os.RemoveAll(dir)

		var acc strings.Builder
		for _, c := range chunks {
			if err := ctx.Err(); err != nil {
				yield(Progress{}, apperrors.Chunk(c.Index, err))
				return
			}

			text, err := ct.transcribeChunk(ctx, dir, c, wf.SampleRate)
			if err != nil {
				yield(Progress{}, apperrors.Chunk(c.Index, err))
				return
			}

			acc.WriteString(text)
			acc.WriteString("\n")

			ct.logger.Debug("Chunk transcribed",
				"provider", ct.providerName,
				"chunk", c.Index+1,
				"chunks", len(chunks),
			)

			p := Progress{
				Text:     acc.String(),
				Fraction: float64(c.Index+1) / float64(len(chunks)),
				Chunk:    c.Index + 1,
				Chunks:   len(chunks),
				Segment: Segment{
					Index: c.Index,
					Start: sampleOffset(c.Start, wf.SampleRate),
					End:   sampleOffset(c.End, wf.SampleRate),
					Text:  text,
				},
			}
			if !yield(p, nil) {
				return
			}
		}
	}
}

// Transcribe drains Stream and returns the final transcript with its per-chunk segments.
func (ct *ChunkedTranscriber) Transcribe(ctx context.Context, wf audio.Waveform) (string, []Segment, error) {
	var (
		text     string
		segments []Segment
	)
	for p, err := range ct.Stream(ctx, wf) {
		if err != nil {
			return "", nil, err
		}
		text = p.Text
		segments = append(segments, p.Segment)
	}
	return text, segments, nil
}

func (ct *ChunkedTranscriber) transcribeChunk(ctx context.Context, dir string, c audio.Chunk, sampleRate int) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("chunk_%04d.wav", c.Index))
	if err := audio.WriteWAVFile(path, c.Samples, sampleRate); err != nil {
		return "", err
	}
	defer os.Remove(path)

	start := time.Now()
	resp, err := ct.provider.TranscriptWithOptions(ctx, &provider.TranscriptionRequest{
		InputFilePath:   path,
		Language:        ct.opts.Language,
		ProviderOptions: map[string]interface{}{provider.OptionFP16: ct.opts.FP16},
	})
	elapsed := time.Since(start)

	if ct.metrics != nil {
		ct.metrics.RecordChunk(ct.providerName, err == nil, elapsed.Seconds())
	}
	if ct.stats != nil {
		if err != nil {
			ct.stats.RecordFailure(ct.providerName, provider.ErrorCode(err))
		} else {
			ct.stats.RecordSuccess(ct.providerName, elapsed.Milliseconds(), c.Duration(sampleRate).Seconds())
		}
	}

	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func sampleOffset(sample, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(sample) * time.Second / time.Duration(sampleRate)
}
