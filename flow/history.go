package flow

import "sync"

// Navigator performs screen transitions.
type Navigator interface {
	Navigate(path string)
}

// History is the process-wide navigator. It remembers the current location
// and tells subscribers about every transition.
type History struct {
	mu          sync.Mutex
	location    string
	subscribers []func(path string)
}

func NewHistory(initial string) *History {
	return &History{location: initial}
}

func (h *History) Navigate(path string) {
	h.mu.Lock()
	h.location = path
	subs := append([]func(string){}, h.subscribers...)
	h.mu.Unlock()

	for _, fn := range subs {
		fn(path)
	}
}

func (h *History) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.location
}

// Subscribe registers fn to run after every navigation. fn runs on the
// navigating goroutine and must not call Navigate.
func (h *History) Subscribe(fn func(path string)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers = append(h.subscribers, fn)
}
