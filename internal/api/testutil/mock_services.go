// Package testutil provides testify mocks of the v1 API services for handler tests.
package testutil

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/mock"

	"minutes-whisper/internal/api/v1/dto"
	"minutes-whisper/internal/app/converter"
	"minutes-whisper/internal/app/minutes"
)

// MockServices contains all mock services for testing
type MockServices struct {
	MinutesService  *MockMinutesService
	ProviderService *MockProviderService
}

// NewMockServices creates a new instance of mock services
func NewMockServices(t *testing.T) *MockServices {
	return &MockServices{
		MinutesService:  NewMockMinutesService(t),
		ProviderService: NewMockProviderService(t),
	}
}

// AssertExpectations asserts expectations on every mock
func (ms *MockServices) AssertExpectations(t *testing.T) {
	ms.MinutesService.AssertExpectations(t)
	ms.ProviderService.AssertExpectations(t)
}

// MockMinutesService is a mock implementation of MinutesService.
// An optional third return value of type []converter.Progress is replayed into observe.
type MockMinutesService struct {
	mock.Mock
}

func NewMockMinutesService(t *testing.T) *MockMinutesService {
	m := &MockMinutesService{}
	m.Test(t)
	return m
}

func (m *MockMinutesService) Modes() []dto.ModeResponse {
	args := m.Called()
	return args.Get(0).([]dto.ModeResponse)
}

func (m *MockMinutesService) ProviderName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockMinutesService) CreateMinutes(ctx context.Context, upload io.Reader, filename string, mode minutes.Mode, observe func(converter.Progress)) (*converter.Result, error) {
	data, _ := io.ReadAll(upload)
	args := m.Called(ctx, string(data), filename, mode)

	if len(args) > 2 && observe != nil {
		if steps, ok := args.Get(2).([]converter.Progress); ok {
			for _, p := range steps {
				observe(p)
			}
		}
	}

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*converter.Result), args.Error(1)
}

// MockProviderService is a mock implementation of ProviderService
type MockProviderService struct {
	mock.Mock
}

func NewMockProviderService(t *testing.T) *MockProviderService {
	m := &MockProviderService{}
	m.Test(t)
	return m
}

func (m *MockProviderService) ListProviders(ctx context.Context) ([]dto.ProviderResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.ProviderResponse), args.Error(1)
}

func (m *MockProviderService) GetProvider(ctx context.Context, id string) (*dto.ProviderResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ProviderResponse), args.Error(1)
}

func (m *MockProviderService) GetProviderStatus(ctx context.Context, id string) (*dto.ProviderStatusResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ProviderStatusResponse), args.Error(1)
}

func (m *MockProviderService) GetProviderStats(ctx context.Context, id string) (*dto.ProviderStatsResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ProviderStatsResponse), args.Error(1)
}
