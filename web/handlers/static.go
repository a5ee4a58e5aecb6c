package handlers

import (
	"bytes"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"minutes-whisper/web"
)

// StaticHandler serves the embedded UI
type StaticHandler struct {
	files   fs.FS
	modTime time.Time
}

// NewStaticHandler creates a handler over the embedded static directory
func NewStaticHandler() *StaticHandler {
	sub, err := fs.Sub(web.Static, "static")
	if err != nil {
		panic(err) // the directory is embedded at build time
	}
	return NewStaticHandlerFS(sub)
}

// NewStaticHandlerFS creates a handler over files
func NewStaticHandlerFS(files fs.FS) *StaticHandler {
	return &StaticHandler{
		files:   files,
		modTime: time.Now(),
	}
}

// ServeStatic serves static files and the main HTML page
func (h *StaticHandler) ServeStatic(w http.ResponseWriter, r *http.Request) {
	name := path.Clean(r.URL.Path)

	if name == "/" || name == "/index.html" {
		h.serveFile(w, r, "index.html")
		return
	}

	h.serveFile(w, r, strings.TrimPrefix(name, "/"))
}

// serveFile serves a specific file with the content type of its extension
func (h *StaticHandler) serveFile(w http.ResponseWriter, r *http.Request, name string) {
	data, err := fs.ReadFile(h.files, name)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", getContentType(name))

	// Set caching headers for static assets
	if name != "index.html" {
		w.Header().Set("Cache-Control", "public, max-age=3600")
	}

	http.ServeContent(w, r, name, h.modTime, bytes.NewReader(data))
}

// getContentType returns the appropriate content type for a file
func getContentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".html":
		return "text/html; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".js":
		return "application/javascript; charset=utf-8"
	case ".json":
		return "application/json"
	case ".png":
		return "image/png"
	case ".svg":
		return "image/svg+xml"
	case ".ico":
		return "image/x-icon"
	default:
		return "application/octet-stream"
	}
}
