package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/steady-better/internal/logger"
	"github.com/yourusername/steady-better/internal/metrics"
)

// Common error codes
const (
	ErrCodeNetworkError = "network_error"
	ErrCodeNotFound     = "not_found"
	ErrCodeServerError  = "server_error"
	ErrCodeInvalidData  = "invalid_data"
)

// SourceError represents errors from season file fetching
type SourceError struct {
	URL     string // Requested URL
	Code    string // Error code (e.g., "not_found")
	Message string // Error message
	Err     error  // Underlying error
}

func (e SourceError) Error() string {
	if e.Err != nil {
		return e.URL + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.URL + ": " + e.Code + ": " + e.Message
}

func (e SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError creates a new source error
func NewSourceError(url, code, message string, err error) SourceError {
	return SourceError{
		URL:     url,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Fetcher downloads season files into a local cache directory.
type Fetcher struct {
	client   *RateLimitedHTTPClient
	cacheDir string
	logger   *logger.DatasetLogger
}

// NewFetcher creates a season file fetcher.
func NewFetcher(client *RateLimitedHTTPClient, cacheDir string, baseLogger *logrus.Logger) *Fetcher {
	if baseLogger == nil {
		baseLogger = logrus.New()
		baseLogger.SetOutput(io.Discard)
	}
	return &Fetcher{
		client:   client,
		cacheDir: cacheDir,
		logger:   logger.NewDatasetLogger(baseLogger),
	}
}

// Fetch downloads rawURL into the cache directory and returns the local path.
// An existing cache file is reused without hitting the network; the boolean
// reports whether that happened.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, bool, error) {
	name, err := cacheFileName(rawURL)
	if err != nil {
		return "", false, NewSourceError(rawURL, ErrCodeInvalidData, "unparseable URL", err)
	}
	local := filepath.Join(f.cacheDir, name)

	if info, err := os.Stat(local); err == nil {
		f.logger.LogFetchCompleted(rawURL, local, true, info.Size())
		return local, true, nil
	}

	if err := os.MkdirAll(f.cacheDir, 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create cache directory: %w", err)
	}

	f.logger.LogFetchStarted(rawURL, local)
	started := time.Now()
	data, err := f.download(ctx, rawURL)
	if err != nil {
		metrics.RecordDatasetFetch("failure", time.Since(started).Seconds())
		return "", false, err
	}
	metrics.RecordDatasetFetch("success", time.Since(started).Seconds())

	if err := os.WriteFile(local, data, 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write cache file: %w", err)
	}

	f.logger.LogFetchCompleted(rawURL, local, false, int64(len(data)))
	return local, false, nil
}

func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := f.client.Get(ctx, rawURL)
	if err != nil {
		return nil, NewSourceError(rawURL, ErrCodeNetworkError, "failed to download season file", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewSourceError(rawURL, ErrCodeNotFound, "season file not found", nil)
	case resp.StatusCode != http.StatusOK:
		return nil, NewSourceError(rawURL, ErrCodeServerError, fmt.Sprintf("unexpected status: %d", resp.StatusCode), nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewSourceError(rawURL, ErrCodeNetworkError, "failed to read response body", err)
	}
	return data, nil
}

// IsURL reports whether the source names a remote season file.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// cacheFileName flattens a season file URL into a cache file name, e.g.
// "https://www.football-data.co.uk/mmz4281/2425/E0.csv" becomes
// "mmz4281-2425-E0.csv".
func cacheFileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	name := strings.Join(segments, "-")
	if name == "" {
		name = u.Host
	}
	return name, nil
}
