package audio

import (
	"fmt"
	"time"
)

// SampleRate is the canonical rate every upload is resampled to before transcription.
const SampleRate = 16000

// DefaultChunkSeconds is the fixed window fed to the model per progress step.
const DefaultChunkSeconds = 30

// Waveform is a decoded mono signal with samples normalised to [-1, 1].
type Waveform struct {
	Samples    []float32
	SampleRate int
}

// Chunk is a contiguous window of a Waveform covering samples [Start, End).
type Chunk struct {
	Index   int
	Start   int
	End     int
	Samples []float32
}

// Len returns the number of samples in the waveform
func (w Waveform) Len() int {
	return len(w.Samples)
}

// Duration returns the playback length of the waveform
func (w Waveform) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(w.Samples)) * time.Second / time.Duration(w.SampleRate)
}

// ChunkSize returns the number of samples in a window of the given duration.
func ChunkSize(chunkSeconds, sampleRate int) int {
	return chunkSeconds * sampleRate
}

// ChunkCount returns ceil(n / size). A non-positive size yields zero.
func ChunkCount(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Split partitions the waveform into consecutive windows of chunkSeconds.
// Every window except possibly the last holds exactly chunkSeconds*SampleRate samples.
// Window sample slices alias the waveform and must not be modified.
func (w Waveform) Split(chunkSeconds int) ([]Chunk, error) {
	if chunkSeconds <= 0 {
		return nil, fmt.Errorf("chunk duration must be positive, got %d", chunkSeconds)
	}
	if w.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", w.SampleRate)
	}

	size := ChunkSize(chunkSeconds, w.SampleRate)
	n := len(w.Samples)
	chunks := make([]Chunk, 0, ChunkCount(n, size))

	for start, i := 0, 0; start < n; start, i = start+size, i+1 {
		end := min(start+size, n)
		chunks = append(chunks, Chunk{
			Index:   i,
			Start:   start,
			End:     end,
			Samples: w.Samples[start:end:end],
		})
	}

	return chunks, nil
}

// Duration returns the playback length of the chunk at the given sample rate
func (c Chunk) Duration(sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(len(c.Samples)) * time.Second / time.Duration(sampleRate)
}
