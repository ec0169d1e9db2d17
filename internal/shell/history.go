package shell

import (
	"log/slog"
	"sync"
)

// Entry is one visited location.
type Entry struct {
	Route string
	State any
}

// History is an in-memory Navigator.
type History struct {
	mu        sync.Mutex
	entries   []Entry
	listeners []func(Entry)
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Navigate(route string, state any) {
	entry := Entry{Route: route, State: state}

	h.mu.Lock()
	h.entries = append(h.entries, entry)
	listeners := append([]func(Entry){}, h.listeners...)
	h.mu.Unlock()

	slog.Debug("navigate", "route", route)
	for _, fn := range listeners {
		fn(entry)
	}
}

// OnNavigate registers fn to be called after every navigation.
func (h *History) OnNavigate(fn func(Entry)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

// Current returns the latest entry.
func (h *History) Current() (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return Entry{}, false
	}
	return h.entries[len(h.entries)-1], true
}

func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Entry(nil), h.entries...)
}
