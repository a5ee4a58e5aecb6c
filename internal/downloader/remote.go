package downloader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

var supportFileExtensions = []string{".mp3", ".m4a", ".wav", ".ogg", ".flac", ".webm", ".mp4", ".aac"}

// Fetcher downloads a recording to a local file so it can be run through a minutes job.
// The URL may point at the audio itself or at an episode page exposing it via og:audio
// or an <audio> element.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
	logger   *slog.Logger
}

// NewFetcher creates a fetcher. maxBytes <= 0 disables the size limit.
func NewFetcher(client *http.Client, maxBytes int64, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{client: client, maxBytes: maxBytes, logger: logger}
}

// Fetch saves the recording behind rawURL into dir and returns its path.
// The caller owns the file and removes it when done.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, dir string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("invalid URL: %s", rawURL)
	}

	resp, err := f.get(ctx, u.String())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if isHTML(resp.Header.Get("Content-Type")) {
		audioURL, err := findAudioURL(resp.Body, u)
		if err != nil {
			return "", err
		}
		f.logger.Info("Resolved audio from page", "page", u.String(), "audio", audioURL)
		return f.download(ctx, audioURL, dir)
	}

	return f.save(resp, u, dir)
}

func (f *Fetcher) download(ctx context.Context, audioURL, dir string) (string, error) {
	u, err := url.Parse(audioURL)
	if err != nil {
		return "", fmt.Errorf("invalid audio URL %s: %w", audioURL, err)
	}
	resp, err := f.get(ctx, audioURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	return f.save(resp, u, dir)
}

func (f *Fetcher) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", rawURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("download %s: unexpected status %d", rawURL, resp.StatusCode)
	}
	return resp, nil
}

func (f *Fetcher) save(resp *http.Response, u *url.URL, dir string) (string, error) {
	if f.maxBytes > 0 && resp.ContentLength > f.maxBytes {
		return "", fmt.Errorf("remote file is %d bytes, limit is %d", resp.ContentLength, f.maxBytes)
	}

	ext := getAudioFileExtension(u.Path)
	if ext == "" {
		return "", fmt.Errorf("cannot get file extension for url %v", u)
	}

	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	out := filepath.Join(dir, "remote-"+uuid.NewString()+ext)

	file, err := os.OpenFile(out, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", err
	}

	var body io.Reader = resp.Body
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	n, err := io.Copy(file, body)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err == nil && f.maxBytes > 0 && n > f.maxBytes {
		err = fmt.Errorf("remote file exceeds limit of %d bytes", f.maxBytes)
	}
	if err != nil {
		os.Remove(out)
		return "", err
	}

	f.logger.Info("Downloaded recording", "url", u.String(), "path", out, "bytes", n)
	return out, nil
}

// findAudioURL reads an episode page and resolves the recording it links to.
func findAudioURL(r io.Reader, page *url.URL) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}

	candidates := []string{
		doc.Find(`meta[property="og:audio"]`).First().AttrOr("content", ""),
		doc.Find(`meta[property="og:audio:url"]`).First().AttrOr("content", ""),
		doc.Find("audio[src]").First().AttrOr("src", ""),
		doc.Find("audio source[src]").First().AttrOr("src", ""),
	}
	found, ok := lo.Find(candidates, func(s string) bool { return strings.TrimSpace(s) != "" })
	if !ok {
		return "", fmt.Errorf("cannot find an audio url in %s", page)
	}

	ref, err := url.Parse(strings.TrimSpace(found))
	if err != nil {
		return "", fmt.Errorf("invalid audio url %q: %w", found, err)
	}
	return page.ResolveReference(ref).String(), nil
}

// getAudioFileExtension returns the extension of a supported audio path, or "".
func getAudioFileExtension(p string) string {
	ext := strings.ToLower(path.Ext(p))
	if lo.Contains(supportFileExtensions, ext) {
		return ext
	}
	return ""
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
