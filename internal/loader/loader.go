// Package loader fetches a listings export from a local file or an HTTP URL
// and cuts it down to the processing window.
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"listingdeck/internal/config"
	"listingdeck/pkg/metadata"
	"listingdeck/pkg/utils"
)

// DefaultWindow is the number of listings processed per load cycle.
const DefaultWindow = 50

// Load failure causes, wrapped by LoadError.
var (
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrRequest          = errors.New("request failed")
	ErrRead             = errors.New("failed to read source")
	ErrTooLarge         = errors.New("source exceeds size limit")
	ErrDecode           = errors.New("malformed listings document")
	ErrNotArray         = errors.New("listings document is not a JSON array")
)

// LoadError reports a failed load. It is fatal for the whole load cycle.
type LoadError struct {
	Err        error
	Source     string
	StatusCode int
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load listings from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Result is a successfully loaded window of raw records.
type Result struct {
	Source   string
	Checksum string
	Records  []json.RawMessage
	Total    int
	Size     int64
	Duration time.Duration
}

// Loader reads listings exports. A Loader makes exactly one attempt per call.
type Loader struct {
	client   *http.Client
	http     *utils.HTTPHelper
	window   int
	maxBytes int64
}

// NewLoader creates a loader with default settings.
func NewLoader() *Loader {
	return NewLoaderWithConfig(&config.DefaultConfig().Source)
}

// NewLoaderWithConfig creates a loader using the source settings.
func NewLoaderWithConfig(cfg *config.SourceConfig) *Loader {
	defaults := config.DefaultConfig().Source

	window := cfg.Window
	if window < 1 {
		window = DefaultWindow
	}

	maxSizeKb := cfg.MaxSizeKb
	if maxSizeKb < 1 {
		maxSizeKb = defaults.MaxSizeKb
	}

	timeout := cfg.GetTimeout()
	if timeout <= 0 {
		timeout = defaults.GetTimeout()
	}

	return &Loader{
		client: &http.Client{
			Timeout: timeout,
		},
		http:     utils.NewHTTPHelper(cfg.UserAgent),
		window:   window,
		maxBytes: int64(maxSizeKb) * 1024,
	}
}

// WithHTTPClient replaces the HTTP client, mainly for tests.
func (l *Loader) WithHTTPClient(client *http.Client) *Loader {
	l.client = client

	return l
}

// Window returns the maximum number of records returned per load.
func (l *Loader) Window() int {
	return l.window
}

// Load reads source (a file path or http(s) URL), decodes the top-level
// array and returns its first Window() elements.
func (l *Loader) Load(ctx context.Context, source string) (*Result, error) {
	start := time.Now()

	var (
		data []byte
		err  error
	)

	if config.IsURL(source) {
		data, err = l.fetch(ctx, source)
	} else {
		data, err = l.readFile(ctx, source)
	}

	if err != nil {
		return nil, err
	}

	records, err := decodeArray(data)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	total := len(records)
	if total > l.window {
		records = records[:l.window]
	}

	return &Result{
		Source:   source,
		Checksum: metadata.Checksum(data),
		Records:  records,
		Total:    total,
		Size:     int64(len(data)),
		Duration: time.Since(start),
	}, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, &LoadError{Source: url, Err: fmt.Errorf("%w: %w", ErrRequest, err)}
	}

	req.Header = l.http.BuildHeaders(nil)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &LoadError{Source: url, Err: fmt.Errorf("%w: %w", ErrRequest, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &LoadError{
			Source:     url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, http.StatusText(resp.StatusCode)),
		}
	}

	data, err := l.readLimited(resp.Body)
	if err != nil {
		return nil, &LoadError{Source: url, StatusCode: resp.StatusCode, Err: err}
	}

	return data, nil
}

func (l *Loader) readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Source: path, Err: fmt.Errorf("%w: %w", ErrRead, err)}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: fmt.Errorf("%w: %w", ErrRead, err)}
	}
	defer f.Close()

	data, err := l.readLimited(f)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}

	return data, nil
}

// readLimited reads at most maxBytes, failing when the source is larger.
func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}

	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, l.maxBytes)
	}

	return data, nil
}

func decodeArray(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrDecode)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(trimmed, &records); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: got %s", ErrNotArray, typeErr.Value)
		}

		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	// null decodes into a nil slice without error
	if trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: got null", ErrNotArray)
	}

	return records, nil
}
