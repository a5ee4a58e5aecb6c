package audio

import (
	"fmt"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	bitDepth      = 16
	pcmFormat     = 1
	int16MaxFloat = 32767.0
	int16Scale    = 32768.0
)

// WriteWAVFile encodes samples as a 16-bit mono PCM WAV file at path.
func WriteWAVFile(path string, samples []float32, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create WAV file: %w", err)
	}

	enc := wav.NewEncoder(f, sampleRate, bitDepth, 1, pcmFormat)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           toPCM16(samples),
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to finalize WAV header: %w", err)
	}
	return f.Close()
}

// ReadWAVFile decodes a PCM WAV file into a normalised mono waveform.
// Multi-channel input is down-mixed by averaging.
func ReadWAVFile(path string) (Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return Waveform{}, fmt.Errorf("failed to open WAV file: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Waveform{}, fmt.Errorf("failed to read PCM data: %w", err)
	}
	if buf == nil || buf.Format == nil {
		return Waveform{}, fmt.Errorf("invalid WAV file: missing format")
	}

	channels := max(buf.Format.NumChannels, 1)
	depth := buf.SourceBitDepth
	if depth == 0 {
		depth = int(dec.BitDepth)
	}
	scale := math.Pow(2, float64(depth-1))
	if depth <= 0 {
		scale = int16Scale
	}

	frames := len(buf.Data) / channels
	samples := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum int
		for c := 0; c < channels; c++ {
			sum += buf.Data[i*channels+c]
		}
		samples[i] = float32(float64(sum) / float64(channels) / scale)
	}

	return Waveform{Samples: samples, SampleRate: buf.Format.SampleRate}, nil
}

func toPCM16(samples []float32) []int {
	data := make([]int, len(samples))
	for i, s := range samples {
		v := math.Round(float64(s) * int16MaxFloat)
		data[i] = int(max(min(v, int16MaxFloat), -int16Scale))
	}
	return data
}
