package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"minutes-whisper/internal/api/errors"
	"minutes-whisper/internal/api/middleware"
	"minutes-whisper/internal/api/testutil"
	"minutes-whisper/internal/api/v1/dto"
	"minutes-whisper/internal/api/v1/routes"
	"minutes-whisper/internal/app/converter"
	"minutes-whisper/internal/app/minutes"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *testutil.MockServices) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.ErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil))))

	ms := testutil.NewMockServices(t)
	routes.RegisterRoutes(router.Group("/api/v1"), &routes.ServiceContainer{
		MinutesService:  ms.MinutesService,
		ProviderService: ms.ProviderService,
		MaxUploadBytes:  1 << 20,
	})
	return router, ms
}

func uploadRequest(t *testing.T, target, mode string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if mode != "" {
		require.NoError(t, w.WriteField("mode", mode))
	}
	if content != nil {
		part, err := w.CreateFormFile("file", "meeting.m4a")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

type sseEvent struct {
	Name string
	Data map[string]interface{}
}

func parseSSE(t *testing.T, body string) []sseEvent {
	t.Helper()
	var events []sseEvent
	for _, block := range strings.Split(strings.TrimSpace(body), "\n\n") {
		var ev sseEvent
		for _, line := range strings.Split(block, "\n") {
			switch {
			case strings.HasPrefix(line, "event:"):
				ev.Name = strings.TrimPrefix(line, "event:")
			case strings.HasPrefix(line, "data:"):
				require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data:")), &ev.Data))
			}
		}
		events = append(events, ev)
	}
	return events
}

func sampleResult(mode minutes.Mode) *converter.Result {
	transcript := "Hello.\nWorld.\n"
	return &converter.Result{
		Document:   minutes.Render(transcript, mode),
		Transcript: transcript,
		Mode:       mode,
		FileName:   minutes.DownloadFileName,
	}
}

func TestMinutesHandler_CreateAttachment(t *testing.T) {
	router, ms := setupTestRouter(t)
	result := sampleResult(minutes.ModeConversation)

	ms.MinutesService.On("CreateMinutes", mock.Anything, "audio-bytes", "meeting.m4a", minutes.ModeConversation).
		Return(result, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "/api/v1/minutes", "conversation", []byte("audio-bytes")))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="minutes.txt"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, result.Document, rec.Body.String())
	ms.AssertExpectations(t)
}

func TestMinutesHandler_DefaultModeIsFull(t *testing.T) {
	router, ms := setupTestRouter(t)
	ms.MinutesService.On("CreateMinutes", mock.Anything, "a", "meeting.m4a", minutes.ModeFull).
		Return(sampleResult(minutes.ModeFull), nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "/api/v1/minutes", "", []byte("a")))

	assert.Equal(t, http.StatusOK, rec.Code)
	ms.AssertExpectations(t)
}

func TestMinutesHandler_CreateErrors(t *testing.T) {
	tests := []struct {
		name       string
		mode       string
		content    []byte
		setupMocks func(*testutil.MockServices)
		wantStatus int
		wantKind   errors.ErrorKind
		wantBody   func(*testing.T, errors.APIError)
	}{
		{
			name:       "missing file",
			mode:       "full",
			setupMocks: func(ms *testutil.MockServices) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   errors.KindValidation,
			wantBody: func(t *testing.T, e errors.APIError) {
				assert.Equal(t, "is required", e.Details["file"])
			},
		},
		{
			name:       "unknown mode",
			mode:       "summary",
			content:    []byte("a"),
			setupMocks: func(ms *testutil.MockServices) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   errors.KindValidation,
			wantBody: func(t *testing.T, e errors.APIError) {
				assert.Contains(t, e.Details["mode"], "full conversation points")
			},
		},
		{
			name:       "empty file",
			content:    []byte{},
			setupMocks: func(ms *testutil.MockServices) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   errors.KindValidation,
		},
		{
			name:       "too large",
			content:    bytes.Repeat([]byte("a"), 2<<20),
			setupMocks: func(ms *testutil.MockServices) {},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantKind:   errors.KindPayloadTooLarge,
		},
		{
			name:    "transcription failure",
			content: []byte("a"),
			setupMocks: func(ms *testutil.MockServices) {
				ms.MinutesService.On("CreateMinutes", mock.Anything, "a", "meeting.m4a", minutes.ModeFull).
					Return(nil, &errors.APIError{
						Kind:    errors.KindTranscription,
						Message: errors.TranscriptionFailedMessage,
						Code:    "chunk",
						Details: map[string]string{"chunk": "2"},
					})
			},
			wantStatus: http.StatusBadGateway,
			wantKind:   errors.KindTranscription,
			wantBody: func(t *testing.T, e errors.APIError) {
				assert.Equal(t, "文字起こしに失敗しました", e.Message)
				assert.Equal(t, "2", e.Details["chunk"])
				assert.NotEmpty(t, e.RequestID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, ms := setupTestRouter(t)
			tt.setupMocks(ms)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, uploadRequest(t, "/api/v1/minutes", tt.mode, tt.content))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body errors.APIError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantKind, body.Kind)
			if tt.wantBody != nil {
				tt.wantBody(t, body)
			}
			ms.AssertExpectations(t)
		})
	}
}

func TestMinutesHandler_Stream(t *testing.T) {
	router, ms := setupTestRouter(t)
	result := sampleResult(minutes.ModePoints)

	ms.MinutesService.On("ProviderName").Return("whisper_cpp")
	ms.MinutesService.On("CreateMinutes", mock.Anything, "audio", "meeting.m4a", minutes.ModePoints).
		Return(result, nil, []converter.Progress{
			{Text: "Hello.\n", Fraction: 0.5, Chunk: 1, Chunks: 2},
			{Text: "Hello.\nWorld.\n", Fraction: 1, Chunk: 2, Chunks: 2},
		})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "/api/v1/minutes?stream=true", "points", []byte("audio")))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/event-stream")

	events := parseSSE(t, rec.Body.String())
	require.Len(t, events, 4)

	assert.Equal(t, "status", events[0].Name)
	assert.Equal(t, "whisper_cpp", events[0].Data["provider"])
	assert.Equal(t, "points", events[0].Data["mode"])

	assert.Equal(t, "progress", events[1].Name)
	assert.Equal(t, 0.5, events[1].Data["progress"])
	assert.Equal(t, "Hello.\n", events[1].Data["text"])

	assert.Equal(t, "progress", events[2].Name)
	assert.Equal(t, 1.0, events[2].Data["progress"])
	assert.Equal(t, float64(2), events[2].Data["chunks"])

	assert.Equal(t, "done", events[3].Name)
	assert.Equal(t, result.Document, events[3].Data["document"])
	assert.Equal(t, "minutes.txt", events[3].Data["filename"])
	ms.AssertExpectations(t)
}

func TestMinutesHandler_StreamError(t *testing.T) {
	router, ms := setupTestRouter(t)

	ms.MinutesService.On("ProviderName").Return("openai")
	ms.MinutesService.On("CreateMinutes", mock.Anything, "audio", "meeting.m4a", minutes.ModeFull).
		Return(nil, errors.NewTranscriptionError(assert.AnError), []converter.Progress{
			{Text: "partial\n", Fraction: 1.0 / 3, Chunk: 1, Chunks: 3},
		})

	req := uploadRequest(t, "/api/v1/minutes", "full", []byte("audio"))
	req.Header.Set("Accept", "text/event-stream")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	events := parseSSE(t, rec.Body.String())
	require.Len(t, events, 3)
	assert.Equal(t, "progress", events[1].Name)
	assert.Equal(t, "error", events[2].Name)
	assert.Equal(t, "文字起こしに失敗しました", events[2].Data["message"])
	for _, ev := range events {
		assert.NotEqual(t, "done", ev.Name)
	}
	ms.AssertExpectations(t)
}

func TestMinutesHandler_Modes(t *testing.T) {
	router, ms := setupTestRouter(t)
	ms.MinutesService.On("Modes").Return([]dto.ModeResponse{
		{ID: "full", Label: minutes.ModeFull.Label()},
		{ID: "conversation", Label: minutes.ModeConversation.Label()},
		{ID: "points", Label: minutes.ModePoints.Label()},
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/modes", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Modes   []dto.ModeResponse `json:"modes"`
		Default string             `json:"default"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Modes, 3)
	assert.Equal(t, "full", body.Default)
}

func TestProviderHandler(t *testing.T) {
	router, ms := setupTestRouter(t)

	ms.ProviderService.On("ListProviders", mock.Anything).Return([]dto.ProviderResponse{
		{ID: "whisper_cpp", Name: "Whisper.cpp", IsDefault: true, HealthStatus: "healthy"},
	}, nil)
	ms.ProviderService.On("GetProvider", mock.Anything, "missing").Return(nil, errors.NewNotFoundError("provider"))
	ms.ProviderService.On("GetProviderStatus", mock.Anything, "whisper_cpp").
		Return(&dto.ProviderStatusResponse{ID: "whisper_cpp", Status: "healthy"}, nil)
	ms.ProviderService.On("GetProviderStats", mock.Anything, "whisper_cpp").
		Return(&dto.ProviderStatsResponse{ID: "whisper_cpp", TotalRequests: 3}, nil)

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/api/v1/providers", http.StatusOK, `"is_default":true`},
		{"/api/v1/providers/missing", http.StatusNotFound, `"kind":"not_found"`},
		{"/api/v1/providers/whisper_cpp/status", http.StatusOK, `"status":"healthy"`},
		{"/api/v1/providers/whisper_cpp/stats", http.StatusOK, `"total_requests":3`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
	ms.AssertExpectations(t)
}
