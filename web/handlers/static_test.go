package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func TestServeStatic(t *testing.T) {
	h := NewStaticHandlerFS(fstest.MapFS{
		"index.html":       {Data: []byte("<html>議事録</html>")},
		"assets/app.js":    {Data: []byte("console.log(1)")},
		"assets/style.css": {Data: []byte("body{}")},
	})

	tests := []struct {
		path        string
		wantStatus  int
		wantType    string
		wantCaching bool
	}{
		{"/", http.StatusOK, "text/html; charset=utf-8", false},
		{"/index.html", http.StatusOK, "text/html; charset=utf-8", false},
		{"/assets/app.js", http.StatusOK, "application/javascript; charset=utf-8", true},
		{"/assets/style.css", http.StatusOK, "text/css; charset=utf-8", true},
		{"/assets/missing.js", http.StatusNotFound, "", false},
		{"/assets/../../etc/passwd", http.StatusNotFound, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeStatic(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			assert.Equal(t, tt.wantType, rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantCaching, rec.Header().Get("Cache-Control") != "")
		})
	}
}

func TestEmbeddedUI(t *testing.T) {
	h := NewStaticHandler()

	rec := httptest.NewRecorder()
	h.ServeStatic(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "議事録自動生成ツール")
	assert.Contains(t, rec.Body.String(), "https://copilot.microsoft.com/")
}
