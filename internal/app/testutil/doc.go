// Package testutil provides fakes and fixtures shared by the package tests.
//
//   - ScriptedProvider: a provider.TranscriptionProvider that returns canned text per chunk,
//     fails on a chosen call and records every request together with the chunk it received.
//   - StubDecoder: an audio.Decoder returning a fixed waveform or error.
//   - Waveform fixtures (RampWaveform, SilentWaveform) with known sample values.
package testutil
