package queue

import (
	"math/rand"
	"sync"
)

// Item is one playback request. Immutable once enqueued.
type Item struct {
	// StreamRef is an opaque reference the audio opener understands,
	// typically a direct media URL picked at resolve time.
	StreamRef string
	Title     string
	// ReplyTo is the text channel the request came from, so status
	// messages emitted long after the command (track started, errors)
	// still land where the user asked.
	ReplyTo string
}

// Queue is a single guild's FIFO of pending items. Safe for concurrent
// use; every method takes the queue's own lock, so unrelated guilds
// never contend with each other.
type Queue struct {
	mu    sync.Mutex
	items []Item
}

// Push appends items to the tail.
func (q *Queue) Push(items ...Item) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, items...)
}

// Pop removes and returns the head item. ok is false when the queue is empty.
func (q *Queue) Pop() (item Item, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return Item{}, false
	}
	item = q.items[0]
	q.items = q.items[1:]
	return item, true
}

// Items returns a snapshot copy of the pending items in play order.
func (q *Queue) Items() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Item, len(q.items))
	copy(out, q.items)
	return out
}

// Len returns the number of pending items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Clear drops all pending items and returns how many were dropped.
func (q *Queue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := len(q.items)
	q.items = nil
	return n
}

// Shuffle randomly permutes the pending items in place.
func (q *Queue) Shuffle() {
	q.mu.Lock()
	defer q.mu.Unlock()
	rand.Shuffle(len(q.items), func(i, j int) {
		q.items[i], q.items[j] = q.items[j], q.items[i]
	})
}

// Manager owns the guild → queue mapping. Queues are created on first
// reference and live for the process lifetime.
type Manager struct {
	mu     sync.RWMutex
	queues map[string]*Queue
}

func NewManager() *Manager {
	return &Manager{queues: make(map[string]*Queue)}
}

// Get returns the guild's queue, creating an empty one on first use.
func (m *Manager) Get(guildID string) *Queue {
	m.mu.RLock()
	q, ok := m.queues[guildID]
	m.mu.RUnlock()
	if ok {
		return q
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if q, ok := m.queues[guildID]; ok {
		return q
	}
	q = &Queue{}
	m.queues[guildID] = q
	return q
}
