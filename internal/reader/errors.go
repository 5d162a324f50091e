package reader

import (
	"errors"
	"fmt"
)

// ErrSuperseded is returned by a navigation whose result was discarded
// because a newer navigation started.
var ErrSuperseded = errors.New("navigation superseded")

// ErrClosed is returned once the session has been closed.
var ErrClosed = errors.New("session closed")

// SectionNotFoundError reports an unknown section name or slug.
type SectionNotFoundError struct {
	Name string
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("section not found: %s", e.Name)
}

// SectionName returns the requested section.
func (e *SectionNotFoundError) SectionName() string { return e.Name }
