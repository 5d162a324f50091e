package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// Fetcher retrieves a file named by a manifest-relative path.
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// HTTPFetcher fetches paths relative to a base URL.
type HTTPFetcher struct {
	Base   *url.URL
	Client *http.Client
}

// NewHTTPFetcher parses base and returns a fetcher with a bounded client.
func NewHTTPFetcher(base string) (*HTTPFetcher, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL %q: %w", base, err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return &HTTPFetcher{Base: u, Client: &http.Client{Timeout: 30 * time.Second}}, nil
}

// Fetch performs one GET. Non-2xx responses become a FetchError carrying
// the status; there are no retries.
func (f *HTTPFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	ref, err := url.Parse(name)
	if err != nil {
		return nil, &FetchError{Path: name, Err: err}
	}
	target := f.Base.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, &FetchError{Path: name, Err: err}
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{Path: name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Path: name, Status: resp.StatusCode, Err: errors.New(resp.Status)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Path: name, Err: err}
	}
	return body, nil
}

// DirFetcher reads paths from a file system, typically os.DirFS(root).
type DirFetcher struct {
	FS fs.FS
}

// Fetch reads one file. A missing file is reported with status 404 so
// callers treat it like the HTTP case.
func (f DirFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean := strings.TrimPrefix(path.Clean("/"+name), "/")
	if !fs.ValidPath(clean) {
		return nil, &FetchError{Path: name, Status: 400, Err: fs.ErrInvalid}
	}
	data, err := fs.ReadFile(f.FS, clean)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &FetchError{Path: name, Status: 404, Err: err}
	}
	if err != nil {
		return nil, &FetchError{Path: name, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return data, nil
}
