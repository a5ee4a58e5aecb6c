package converter

import (
	"context"
	"log/slog"
	"time"

	"minutes-whisper/internal/app/api/provider"
	"minutes-whisper/internal/app/audio"
	apperrors "minutes-whisper/internal/app/errors"
	"minutes-whisper/internal/app/minutes"
	"minutes-whisper/internal/metrics"
)

// Result is the outcome of one successful minutes job.
type Result struct {
	Document   string
	Transcript string
	Mode       minutes.Mode
	FileName   string
	Segments   []Segment
	Audio      time.Duration
	Elapsed    time.Duration
}

// Converter runs a whole job: decode the upload, transcribe it chunk by chunk, render the document.
type Converter struct {
	decoder  audio.Decoder
	provider provider.TranscriptionProvider
	opts     Options
	logger   *slog.Logger
	metrics  *metrics.Metrics
	stats    provider.ProviderMetrics
}

// NewConverter creates a converter. metrics and stats may be nil.
func NewConverter(decoder audio.Decoder, p provider.TranscriptionProvider, opts Options, logger *slog.Logger, m *metrics.Metrics, stats provider.ProviderMetrics) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{
		decoder:  decoder,
		provider: p,
		opts:     opts,
		logger:   logger,
		metrics:  m,
		stats:    stats,
	}
}

// ProviderName returns the name of the provider jobs are sent to
func (c *Converter) ProviderName() string {
	return c.provider.GetProviderInfo().Name
}

// Convert runs a job on inputPath. observe, when non-nil, is called synchronously after every
// chunk. On failure no Result is returned; the error carries a decode, model or chunk tag.
func (c *Converter) Convert(ctx context.Context, inputPath string, mode minutes.Mode, observe func(Progress)) (*Result, error) {
	start := time.Now()
	if c.metrics != nil {
		c.metrics.RecordJobStarted()
	}

	res, err := c.convert(ctx, inputPath, mode, observe)
	elapsed := time.Since(start)

	if err != nil {
		c.logger.Error("Minutes job failed",
			"provider", c.ProviderName(),
			"kind", string(apperrors.KindOf(err)),
			"chunk", apperrors.ChunkOf(err),
			"error", err,
		)
		if c.metrics != nil {
			c.metrics.RecordJobFailed(string(apperrors.KindOf(err)), elapsed.Seconds())
		}
		return nil, err
	}

	res.Elapsed = elapsed
	if c.metrics != nil {
		c.metrics.RecordJobSucceeded(elapsed.Seconds())
	}
	c.logger.Info("Minutes job finished",
		"provider", c.ProviderName(),
		"mode", string(mode),
		"chunks", len(res.Segments),
		"audio", res.Audio.String(),
		"elapsed", elapsed.String(),
	)
	return res, nil
}

func (c *Converter) convert(ctx context.Context, inputPath string, mode minutes.Mode, observe func(Progress)) (*Result, error) {
	if !mode.Valid() {
		return nil, apperrors.ErrUnknownMode
	}
	if err := c.provider.ValidateConfiguration(); err != nil {
		return nil, apperrors.Model(err)
	}

	wf, err := c.decoder.Decode(ctx, inputPath)
	if err != nil {
		return nil, apperrors.Decode(err)
	}
	if c.metrics != nil {
		c.metrics.RecordAudioDuration(wf.Duration().Seconds())
	}

	c.logger.Info("Minutes job started",
		"provider", c.ProviderName(),
		"mode", string(mode),
		"audio", wf.Duration().String(),
	)

	ct := NewChunkedTranscriber(c.provider, c.opts, c.logger).WithMetrics(c.metrics, c.stats)

	var (
		transcript string
		segments   []Segment
	)
	for p, err := range ct.Stream(ctx, wf) {
		if err != nil {
			return nil, err
		}
		transcript = p.Text
		segments = append(segments, p.Segment)
		if observe != nil {
			observe(p)
		}
	}

	return &Result{
		Document:   minutes.Render(transcript, mode),
		Transcript: transcript,
		Mode:       mode,
		FileName:   minutes.DownloadFileName,
		Segments:   segments,
		Audio:      wf.Duration(),
	}, nil
}
