package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultFetchTimeout bounds a remote catalog request.
const DefaultFetchTimeout = 10 * time.Second

// maxCatalogBytes caps the remote payload size.
const maxCatalogBytes = 8 << 20

// Fetcher downloads a replacement catalog from a URL.
type Fetcher struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = c }
}

// WithLogger sets the logger used to report dropped records and failures.
func WithLogger(l *zap.Logger) FetcherOption {
	return func(f *Fetcher) { f.logger = l }
}

// NewFetcher creates a fetcher for url.
func NewFetcher(url string, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		url:    url,
		client: &http.Client{Timeout: DefaultFetchTimeout},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads and parses the remote catalog. Invalid records are dropped.
// The returned slice may be empty; callers decide whether to use it.
func (f *Fetcher) Fetch(ctx context.Context) ([]Exercise, error) {
	if f.url == "" {
		return nil, nil
	}

	data, err := f.download(ctx)
	if err != nil {
		return nil, fmt.Errorf("download catalog: %w", err)
	}

	exercises, dropped, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if dropped > 0 {
		f.logger.Warn("dropped invalid remote exercises",
			zap.Int("dropped", dropped),
			zap.Int("kept", len(exercises)))
	}
	return exercises, nil
}

// Replacement fetches the remote catalog and returns it only when the fetch
// succeeded and produced at least one valid exercise.
func (f *Fetcher) Replacement(ctx context.Context) (*Catalog, bool) {
	exercises, err := f.Fetch(ctx)
	if err != nil {
		f.logger.Debug("remote catalog ignored", zap.String("url", f.url), zap.Error(err))
		return nil, false
	}
	if len(exercises) == 0 {
		return nil, false
	}
	return New(exercises), true
}

func (f *Fetcher) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, f.url)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
}
