package session

import "sync"

type Listener func(Session)

// Hub fans session-change events out to the listeners registered for a user.
type Hub struct {
	mu        sync.Mutex
	nextID    int
	listeners map[string]map[int]Listener
	onCount   func(int)
}

func NewHub() *Hub {
	return &Hub{listeners: make(map[string]map[int]Listener)}
}

// OnCountChange registers a callback receiving the listener total after each
// subscribe or unsubscribe.
func (h *Hub) OnCountChange(fn func(int)) {
	h.mu.Lock()
	h.onCount = fn
	h.mu.Unlock()
}

// Subscribe registers fn for current.UserID and immediately delivers current
// to it. The returned function removes the listener; calling it more than
// once is a no-op.
func (h *Hub) Subscribe(current Session, fn Listener) (unsubscribe func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	set, ok := h.listeners[current.UserID]
	if !ok {
		set = make(map[int]Listener)
		h.listeners[current.UserID] = set
	}
	set[id] = fn
	h.notifyCountLocked()
	h.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if set, ok := h.listeners[current.UserID]; ok {
				delete(set, id)
				if len(set) == 0 {
					delete(h.listeners, current.UserID)
				}
			}
			h.notifyCountLocked()
		})
	}
}

// Publish delivers s to every listener of s.UserID.
func (h *Hub) Publish(s Session) {
	if s.UserID == "" {
		return
	}

	h.mu.Lock()
	targets := make([]Listener, 0, len(h.listeners[s.UserID]))
	for _, fn := range h.listeners[s.UserID] {
		targets = append(targets, fn)
	}
	h.mu.Unlock()

	for _, fn := range targets {
		fn(s)
	}
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.countLocked()
}

func (h *Hub) countLocked() int {
	n := 0
	for _, set := range h.listeners {
		n += len(set)
	}
	return n
}

func (h *Hub) notifyCountLocked() {
	if h.onCount != nil {
		h.onCount(h.countLocked())
	}
}
