package trust

import "sync"

// History is a bounded ring buffer of recent validation results. It replaces
// an unbounded audit list: once full, the oldest entry is evicted.
type History struct {
	mu      sync.Mutex
	entries []Result
	next    int
	full    bool
}

// NewHistory returns a History holding at most capacity entries.
// A non-positive capacity is treated as 1.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}

	return &History{entries: make([]Result, capacity)}
}

// Add records a result, evicting the oldest when full.
func (h *History) Add(result Result) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries[h.next] = result
	h.next = (h.next + 1) % len(h.entries)

	if h.next == 0 {
		h.full = true
	}
}

// Recent returns the recorded results, oldest first.
func (h *History) Recent() []Result {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.full {
		out := make([]Result, h.next)
		copy(out, h.entries[:h.next])

		return out
	}

	out := make([]Result, 0, len(h.entries))
	out = append(out, h.entries[h.next:]...)
	out = append(out, h.entries[:h.next]...)

	return out
}

// Len reports the number of recorded results.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.full {
		return len(h.entries)
	}

	return h.next
}
