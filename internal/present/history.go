package present

import "sync"

// History is the browser history as seen by the presenter.
type History interface {
	// Push adds an entry (user navigation).
	Push(fragment string)
	// Replace rewrites the current entry without navigating.
	Replace(fragment string)
	// Current returns the current fragment.
	Current() string
}

// MemoryHistory is an in-process History.
type MemoryHistory struct {
	mu      sync.Mutex
	entries []string
}

// NewMemoryHistory starts with a single entry.
func NewMemoryHistory(initial string) *MemoryHistory {
	return &MemoryHistory{entries: []string{initial}}
}

func (h *MemoryHistory) Push(fragment string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, fragment)
}

func (h *MemoryHistory) Replace(fragment string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		h.entries = append(h.entries, fragment)
		return
	}
	h.entries[len(h.entries)-1] = fragment
}

func (h *MemoryHistory) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return ""
	}
	return h.entries[len(h.entries)-1]
}

// Len returns the number of entries.
func (h *MemoryHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
