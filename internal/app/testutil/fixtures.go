package testutil

import (
	"context"
	"sync/atomic"

	"minutes-whisper/internal/app/audio"
)

// RampWaveform returns n samples at rate whose values step through a 16-bit exact ramp,
// so a WAV roundtrip returns them unchanged.
func RampWaveform(n, rate int) audio.Waveform {
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = float32(i%200-100) / 32768
	}
	return audio.Waveform{Samples: samples, SampleRate: rate}
}

// SilentWaveform returns seconds of silence at 16 kHz
func SilentWaveform(seconds int) audio.Waveform {
	return audio.Waveform{Samples: make([]float32, seconds*audio.SampleRate), SampleRate: audio.SampleRate}
}

// StubDecoder implements audio.Decoder with a canned result
type StubDecoder struct {
	Waveform audio.Waveform
	Err      error

	calls atomic.Int32
	Last  string
}

func (d *StubDecoder) Decode(ctx context.Context, inputFilePath string) (audio.Waveform, error) {
	d.calls.Add(1)
	d.Last = inputFilePath
	if d.Err != nil {
		return audio.Waveform{}, d.Err
	}
	return d.Waveform, nil
}

// Calls returns how many times Decode ran
func (d *StubDecoder) Calls() int {
	return int(d.calls.Load())
}
