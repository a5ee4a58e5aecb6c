package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"minutes-whisper/internal/app/api/provider"
	"minutes-whisper/internal/app/audio"
)

// RecordedCall is one TranscriptWithOptions invocation seen by ScriptedProvider
type RecordedCall struct {
	Request provider.TranscriptionRequest
	Samples []float32 // chunk samples read back from the request file
	ReadErr error
}

// ScriptedProvider answers call i with Responses[i] (or "chunk <i>" when out of range)
// and fails call FailOn (0-based) with Err.
type ScriptedProvider struct {
	provider.BaseProvider

	Responses   []string
	FailOn      int
	Err         error
	ValidateErr error
	HealthErr   error
	Latency     time.Duration

	mu    sync.Mutex
	calls []RecordedCall
}

// NewScriptedProvider creates a provider named name that never fails
func NewScriptedProvider(name string, responses ...string) *ScriptedProvider {
	return &ScriptedProvider{
		BaseProvider: provider.NewBaseProvider(name, "Scripted "+name, provider.ProviderTypeLocal, "test"),
		Responses:    responses,
		FailOn:       -1,
	}
}

// FailingOn makes call index fail with err
func (s *ScriptedProvider) FailingOn(index int, err error) *ScriptedProvider {
	s.FailOn = index
	s.Err = err
	return s
}

func (s *ScriptedProvider) Transcript(inputFilePath string) (string, error) {
	resp, err := s.TranscriptWithOptions(context.Background(), &provider.TranscriptionRequest{InputFilePath: inputFilePath})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (s *ScriptedProvider) TranscriptWithOptions(ctx context.Context, request *provider.TranscriptionRequest) (*provider.TranscriptionResponse, error) {
	call := RecordedCall{Request: *request}
	if wf, err := audio.ReadWAVFile(request.InputFilePath); err != nil {
		call.ReadErr = err
	} else {
		call.Samples = wf.Samples
	}

	s.mu.Lock()
	index := len(s.calls)
	s.calls = append(s.calls, call)
	s.mu.Unlock()

	if s.Latency > 0 {
		select {
		case <-time.After(s.Latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if index == s.FailOn {
		return nil, s.Err
	}

	text := fmt.Sprintf("chunk %d", index)
	if index < len(s.Responses) {
		text = s.Responses[index]
	}
	return &provider.TranscriptionResponse{Text: text, Language: request.Language, ModelUsed: "scripted"}, nil
}

func (s *ScriptedProvider) ValidateConfiguration() error {
	return s.ValidateErr
}

func (s *ScriptedProvider) HealthCheck(ctx context.Context) error {
	return s.HealthErr
}

// Calls returns a copy of the recorded calls
func (s *ScriptedProvider) Calls() []RecordedCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedCall(nil), s.calls...)
}

// CallCount returns the number of transcription calls so far
func (s *ScriptedProvider) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}
