package nav

import "sync"

// Navigator moves between views. Replace overwrites the current history
// entry so it cannot be revisited with Back.
type Navigator interface {
	Push(loc Location)
	Replace(loc Location)
}

// History is an in-memory history stack. It is safe for concurrent use.
type History struct {
	mu      sync.Mutex
	entries []Location
	onMove  func(Location)
}

// NewHistory starts a history at start.
func NewHistory(start Location) *History {
	return &History{entries: []Location{start}}
}

// OnMove registers a callback run after every Push, Replace or Back with the
// new current location. It is called without the lock held.
func (h *History) OnMove(fn func(Location)) {
	h.mu.Lock()
	h.onMove = fn
	h.mu.Unlock()
}

func (h *History) Push(loc Location) {
	h.mu.Lock()
	h.entries = append(h.entries, loc)
	fn := h.onMove
	h.mu.Unlock()
	if fn != nil {
		fn(loc)
	}
}

func (h *History) Replace(loc Location) {
	h.mu.Lock()
	if len(h.entries) == 0 {
		h.entries = append(h.entries, loc)
	} else {
		h.entries[len(h.entries)-1] = loc
	}
	fn := h.onMove
	h.mu.Unlock()
	if fn != nil {
		fn(loc)
	}
}

// Back pops the current entry. It reports false at the first entry.
func (h *History) Back() (Location, bool) {
	h.mu.Lock()
	if len(h.entries) < 2 {
		h.mu.Unlock()
		return Location{}, false
	}
	h.entries = h.entries[:len(h.entries)-1]
	cur := h.entries[len(h.entries)-1]
	fn := h.onMove
	h.mu.Unlock()
	if fn != nil {
		fn(cur)
	}
	return cur, true
}

// Current returns the top entry.
func (h *History) Current() Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return At(PathHome)
	}
	return h.entries[len(h.entries)-1]
}

// Entries returns a copy of the stack, oldest first.
func (h *History) Entries() []Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Location(nil), h.entries...)
}
