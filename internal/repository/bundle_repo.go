package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/emojitopng/emojitopng-backend/internal/bundle"
)

// ErrBundleUnavailable 번들 데이터셋을 가져올 수 없음
var ErrBundleUnavailable = errors.New("bundled dataset unavailable")

// maxBundleSize limits bundle reads from disk or network
const maxBundleSize = 32 << 20

// BundleSource supplies the default catalog text shipped with the deployment
type BundleSource interface {
	Fetch(ctx context.Context) (string, error)
}

// EmbeddedBundle 바이너리에 포함된 기본 CSV
type EmbeddedBundle struct{}

// NewEmbeddedBundle creates the compiled-in bundle source
func NewEmbeddedBundle() *EmbeddedBundle {
	return &EmbeddedBundle{}
}

// Fetch returns the embedded CSV
func (b *EmbeddedBundle) Fetch(_ context.Context) (string, error) {
	return bundle.DefaultCSV(), nil
}

// FileBundle reads the bundle from a path on disk
type FileBundle struct {
	path string
}

// NewFileBundle creates a file-backed bundle source
func NewFileBundle(path string) *FileBundle {
	return &FileBundle{path: path}
}

// Fetch reads the bundle file
func (b *FileBundle) Fetch(_ context.Context) (string, error) {
	f, err := os.Open(b.path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBundleUnavailable, err)
	}
	defer f.Close()

	return readBundle(f)
}

// HTTPBundle 네트워크에서 CSV를 가져옴
type HTTPBundle struct {
	url    string
	client *http.Client
}

// NewHTTPBundle creates an HTTP bundle source; a zero timeout means 10s
func NewHTTPBundle(url string, timeout time.Duration) *HTTPBundle {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPBundle{url: url, client: &http.Client{Timeout: timeout}}
}

// Fetch downloads the bundle; any non-2xx status is a failure
func (b *HTTPBundle) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBundleUnavailable, err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBundleUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: HTTP %d", ErrBundleUnavailable, resp.StatusCode)
	}

	return readBundle(resp.Body)
}

// ObjectDownloader is the part of the storage client a bundle needs
type ObjectDownloader interface {
	Download(ctx context.Context, key string) ([]byte, error)
}

// ObjectBundle reads the bundle from S3-compatible storage
type ObjectBundle struct {
	store ObjectDownloader
	key   string
}

// NewObjectBundle creates an object storage bundle source
func NewObjectBundle(store ObjectDownloader, key string) *ObjectBundle {
	return &ObjectBundle{store: store, key: key}
}

// Fetch downloads the object
func (b *ObjectBundle) Fetch(ctx context.Context) (string, error) {
	data, err := b.store.Download(ctx, b.key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBundleUnavailable, err)
	}
	if len(data) > maxBundleSize {
		return "", fmt.Errorf("%w: object %s exceeds %d bytes", ErrBundleUnavailable, b.key, maxBundleSize)
	}
	return string(data), nil
}

// readBundle reads at most maxBundleSize bytes; a longer body is an error,
// never a truncated catalog
func readBundle(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBundleSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBundleUnavailable, err)
	}
	if len(data) > maxBundleSize {
		return "", fmt.Errorf("%w: bundle exceeds %d bytes", ErrBundleUnavailable, maxBundleSize)
	}
	return string(data), nil
}
