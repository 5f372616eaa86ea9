package domain

import (
	"sync"
)

// DefaultCapacity is the queue capacity used when none is configured.
const DefaultCapacity = 50

// Queue is a bounded FIFO of pending playback requests for one guild.
// Capacity is fixed at construction; pushes beyond capacity are rejected,
// never truncated. Entries leave the queue only through Pop or Clear.
type Queue struct {
	mu       sync.Mutex
	capacity int
	entries  []Entry
}

// NewQueue creates an empty Queue with the given capacity.
// Non-positive capacities fall back to DefaultCapacity.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{
		capacity: capacity,
		entries:  make([]Entry, 0, capacity),
	}
}

// Capacity returns the fixed maximum number of entries.
func (q *Queue) Capacity() int {
	return q.capacity
}

// Push appends the entry at the tail and reports whether it was accepted.
// A full queue rejects the entry without mutating.
func (q *Queue) Push(entry Entry) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) >= q.capacity {
		return false
	}
	q.entries = append(q.entries, entry)
	return true
}

// Pop removes and returns the head entry. The second return value is false
// if the queue is empty.
func (q *Queue) Pop() (Entry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) == 0 {
		return Entry{}, false
	}
	entry := q.entries[0]
	q.entries = q.entries[1:]
	return entry, true
}

// Clear removes all entries. The queue object itself is retained so its
// capacity survives.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.entries = q.entries[:0]
}

// Len returns the number of queued entries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.entries)
}

// Titles returns up to max entry titles in queue order together with the
// true total count. A non-positive max returns all titles.
func (q *Queue) Titles(max int) ([]string, int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	total := len(q.entries)
	n := total
	if max > 0 && max < n {
		n = max
	}

	titles := make([]string, n)
	for i := 0; i < n; i++ {
		titles[i] = q.entries[i].Title
	}
	return titles, total
}
