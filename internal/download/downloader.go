package download

import (
	"context"
	"errors"
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
	"time"

	"catacrawl/internal/model"
)

// Download errors.
var (
	// ErrUnsupportedContentType is returned when the server responds with
	// a content type outside the asset allowlist.
	ErrUnsupportedContentType = errors.New("download: unsupported content type")

	// ErrBodyTooLarge is returned when the response body exceeds the
	// configured size cap. The partial file is removed.
	ErrBodyTooLarge = errors.New("download: response body too large")
)

// DefaultMaxBodySize caps a single asset download.
const DefaultMaxBodySize = 100 * 1024 * 1024

// contentExtensions maps accepted media types to their canonical file
// extension, used when the URL path carries no usable extension.
var contentExtensions = map[string]string{
	"application/pdf": ".pdf",
	"text/csv":        ".csv",
	"text/html":       ".html",
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"image/svg+xml":   ".svg",
	"video/mp4":       ".mp4",
}

// Downloader fetches asset files. It is safe for concurrent use.
type Downloader struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
	readExif    bool
	logger      *slog.Logger
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(d *Downloader) {
		d.userAgent = ua
	}
}

// WithMaxBodySize caps the size of a single downloaded file.
func WithMaxBodySize(n int64) Option {
	return func(d *Downloader) {
		if n > 0 {
			d.maxBodySize = n
		}
	}
}

// WithExif enables EXIF tag extraction for downloaded images.
func WithExif(enabled bool) Option {
	return func(d *Downloader) {
		d.readExif = enabled
	}
}

// WithLogger sets the logger for download diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Downloader) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDownloader creates a Downloader using the given HTTP client.
func NewDownloader(client *http.Client, opts ...Option) *Downloader {
	d := &Downloader{
		client:      client,
		maxBodySize: DefaultMaxBodySize,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if d.client == nil {
		d.client = http.DefaultClient
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Fetch downloads rawURL into destDir and returns the asset record for
// the written file. The filename comes from the URL path, with the
// extension corrected from the response content type when the path has
// none or ends in a handler suffix like .ashx.
func (d *Downloader) Fetch(ctx context.Context, rawURL, destDir string) (*model.Asset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", rawURL, err)
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}
	req.Header.Set("Accept", "*/*")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("failed to fetch %s: status %d", rawURL, resp.StatusCode)
	}

	mediaType := responseMediaType(resp)
	if !allowedMediaType(mediaType) {
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedContentType, mediaType, rawURL)
	}

	name, err := fileName(rawURL, mediaType)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", destDir, err)
	}

	filePath := filepath.Join(destDir, name)
	written, err := d.writeBody(filePath, resp.Body)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("downloaded asset",
		slog.String("url", rawURL),
		slog.String("file", filePath),
		slog.Int64("bytes", written))

	asset := &model.Asset{
		Name:     name,
		FilePath: filepath.ToSlash(filePath),
		Date:     time.Now().Format("2006-01-02"),
		URL:      rawURL,
		Language: "English",
	}
	if d.readExif && strings.HasPrefix(mediaType, "image/") {
		tags, err := imageExif(filePath)
		if err != nil {
			d.logger.Debug("exif extraction failed",
				slog.String("file", filePath), slog.String("error", err.Error()))
		}
		asset.Exif = tags
	}
	return asset, nil
}

// writeBody streams the response body to filePath, enforcing the body
// size cap. Oversized downloads are removed from disk.
func (d *Downloader) writeBody(filePath string, body io.Reader) (int64, error) {
	f, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", filePath, err)
	}

	written, err := io.Copy(f, io.LimitReader(body, d.maxBodySize+1))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(filePath)
		return 0, fmt.Errorf("failed to write %s: %w", filePath, err)
	}
	if written > d.maxBodySize {
		os.Remove(filePath)
		return 0, fmt.Errorf("%w: %s exceeds %d bytes", ErrBodyTooLarge, filePath, d.maxBodySize)
	}
	return written, nil
}

// responseMediaType returns the normalized media type of a response,
// without parameters such as charset.
func responseMediaType(resp *http.Response) string {
	ct := resp.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}
	return mediaType
}

// allowedMediaType reports whether a media type is an acceptable asset.
// Everything else (scripts, fonts, trackers) is rejected.
func allowedMediaType(mediaType string) bool {
	if _, ok := contentExtensions[mediaType]; ok {
		return true
	}
	return strings.HasPrefix(mediaType, "image/") || strings.HasPrefix(mediaType, "video/")
}

// fileName derives the on-disk filename for a download. Server-side
// handler suffixes and missing extensions are replaced with the
// extension implied by the media type.
func fileName(rawURL, mediaType string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid asset URL %s: %w", rawURL, err)
	}

	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		base = "download"
	}
	base = sanitizeName(base)
	if base == "" {
		base = "download"
	}

	ext := path.Ext(base)
	if ext == "" || strings.EqualFold(ext, ".ashx") {
		base = strings.TrimSuffix(base, ext) + extensionFor(mediaType)
	}
	return base, nil
}

// extensionFor picks a file extension for a media type, preferring the
// canonical table and falling back to the platform MIME database.
func extensionFor(mediaType string) string {
	if ext, ok := contentExtensions[mediaType]; ok {
		return ext
	}
	exts, err := mime.ExtensionsByType(mediaType)
	if err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

// sanitizeName strips characters that would escape the destination
// directory or break on common filesystems.
func sanitizeName(name string) string {
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_",
		"?", "_", "\"", "_", "<", "_", ">", "_", "|", "_",
	)
	name = replacer.Replace(name)
	return strings.Trim(name, ". ")
}
