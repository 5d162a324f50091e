package loader

import (
	"errors"
	"fmt"
)

// ErrNoSections reports that no precomputed sections file is available.
var ErrNoSections = errors.New("no precomputed sections file")

// ManifestError means the manifest could not be loaded or lacks the
// pointer the reader needs.
type ManifestError struct {
	Path  string
	Field string // missing pointer field, empty when the file itself failed
	Err   error
}

func (e *ManifestError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("manifest %s: missing %s pointer", e.Path, e.Field)
	}
	return fmt.Sprintf("manifest %s: %v", e.Path, e.Err)
}

func (e *ManifestError) Unwrap() error { return e.Err }

// FetchError is a failed document retrieval. Status is the HTTP status
// when the transport answered, zero otherwise.
type FetchError struct {
	Path   string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("failed to load %s (HTTP %d)", e.Path, e.Status)
	}
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NotFound reports whether the fetch failed because the target is absent.
func (e *FetchError) NotFound() bool {
	return e.Status == 404
}
