// Package tui provides a Bubble Tea terminal UI for the madori engine.
package tui

// History keeps the most recent command lines in a fixed ring and lets the
// input line browse back through them.
type History struct {
	ring  []string
	start int // index of the oldest entry
	n     int // entries in use
	back  int // 0 = editing fresh input, k = k-th newest entry shown
}

// NewHistory creates a history holding at most size entries.
func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{ring: make([]string, size)}
}

// Len returns the number of stored entries.
func (h *History) Len() int {
	return h.n
}

// at returns the k-th newest entry, k >= 1.
func (h *History) at(k int) string {
	return h.ring[(h.start+h.n-k)%len(h.ring)]
}

// Push records a command. Repeating the newest entry is a no-op; a full ring
// drops its oldest entry.
func (h *History) Push(cmd string) {
	if h.n > 0 && h.at(1) == cmd {
		return
	}
	if h.n < len(h.ring) {
		h.ring[(h.start+h.n)%len(h.ring)] = cmd
		h.n++
		return
	}
	h.ring[h.start] = cmd
	h.start = (h.start + 1) % len(h.ring)
}

// Prev steps one entry older and returns it, stopping at the oldest.
// Returns ("", false) if history is empty.
func (h *History) Prev() (string, bool) {
	if h.n == 0 {
		return "", false
	}
	if h.back < h.n {
		h.back++
	}
	return h.at(h.back), true
}

// Next steps one entry newer. Stepping past the newest returns ("", false)
// and goes back to fresh input.
func (h *History) Next() (string, bool) {
	if h.back <= 1 {
		h.back = 0
		return "", false
	}
	h.back--
	return h.at(h.back), true
}

// ResetCursor leaves browsing mode.
func (h *History) ResetCursor() {
	h.back = 0
}
