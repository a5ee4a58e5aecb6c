package server

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minutes-whisper/internal/app/api/provider"
	"minutes-whisper/internal/app/converter"
	"minutes-whisper/internal/app/minutes"
	"minutes-whisper/internal/app/testutil"
	"minutes-whisper/internal/metrics"
)

func newTestServer(t *testing.T) (*Server, *metrics.Metrics) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := testutil.NewScriptedProvider("whisper_cpp", "A:こんにちは。", "B:さようなら。")
	registry := provider.NewProviderRegistry()
	require.NoError(t, registry.RegisterProvider("whisper_cpp", p))

	m := metrics.NewMetricsWithRegistry(prometheus.NewRegistry())
	stats := provider.NewProviderMetrics()
	dir := t.TempDir()

	conv := converter.NewConverter(
		&testutil.StubDecoder{Waveform: testutil.RampWaveform(200, 100)},
		p,
		converter.Options{ChunkSeconds: 1, Language: "ja", TempDir: dir},
		logger, m, stats,
	)

	cfg := DefaultConfig()
	cfg.TempDir = dir
	return NewServer(cfg, Dependencies{
		Converter: conv,
		Registry:  registry,
		Stats:     stats,
		Metrics:   m,
		Logger:    logger,
	}), m
}

func TestServer_Endpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		path     string
		wantBody string
	}{
		{"/health", `"provider":"whisper_cpp"`},
		{"/", "議事録自動生成ツール"},
		{"/assets/app.js", "text/event-stream"},
		{"/api/v1/modes", `"id":"conversation"`},
		{"/api/v1/providers", `"is_default":true`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestServer_MinutesJob(t *testing.T) {
	srv, _ := newTestServer(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("mode", "full"))
	part, err := w.CreateFormFile("file", "meeting.wav")
	require.NoError(t, err)
	_, err = part.Write([]byte("RIFF"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/minutes", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, minutes.Render("A:こんにちは。\nB:さようなら。\n", minutes.ModeFull), rec.Body.String())
	assert.Contains(t, rec.Body.String(), "**A:**")

	metricsRec := httptest.NewRecorder()
	srv.Router().ServeHTTP(metricsRec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, metricsRec.Code)
	body := metricsRec.Body.String()
	assert.Contains(t, body, "minutes_jobs_succeeded_total 1")
	assert.Contains(t, body, `minutes_http_requests_total{endpoint="/api/v1/minutes",method="POST",status_code="200"} 1`)

	statsRec := httptest.NewRecorder()
	srv.Router().ServeHTTP(statsRec, httptest.NewRequest(http.MethodGet, "/api/v1/providers/whisper_cpp/stats", nil))
	assert.Contains(t, statsRec.Body.String(), `"successful_requests":2`)
}
