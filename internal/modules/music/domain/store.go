package domain

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// maxDisplayedTitles caps how many titles Titles returns for display;
// the total count is always reported exactly.
const maxDisplayedTitles = 20

// QueueStore owns every guild's queue, keyed by guild ID. Queues are
// created lazily on first reference and live for the process lifetime.
type QueueStore struct {
	mu       sync.RWMutex
	capacity int
	queues   map[snowflake.ID]*Queue
}

// NewQueueStore creates a QueueStore whose queues have the given capacity.
// Non-positive capacities fall back to DefaultCapacity.
func NewQueueStore(capacity int) *QueueStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &QueueStore{
		capacity: capacity,
		queues:   make(map[snowflake.ID]*Queue),
	}
}

// GetOrCreate returns the guild's queue, creating an empty one if absent.
func (s *QueueStore) GetOrCreate(guildID snowflake.ID) *Queue {
	s.mu.RLock()
	queue, ok := s.queues[guildID]
	s.mu.RUnlock()
	if ok {
		return queue
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check: another caller may have created it between the locks.
	if queue, ok := s.queues[guildID]; ok {
		return queue
	}
	queue = NewQueue(s.capacity)
	s.queues[guildID] = queue
	return queue
}

// Enqueue appends the entry to the guild's queue tail and reports whether
// it was accepted. It does not mutate the queue on rejection.
func (s *QueueStore) Enqueue(guildID snowflake.ID, entry Entry) bool {
	return s.GetOrCreate(guildID).Push(entry)
}

// Dequeue removes and returns the head entry of the guild's queue.
func (s *QueueStore) Dequeue(guildID snowflake.ID) (Entry, bool) {
	return s.GetOrCreate(guildID).Pop()
}

// Clear removes all entries for the guild. The queue itself is retained.
func (s *QueueStore) Clear(guildID snowflake.ID) {
	s.GetOrCreate(guildID).Clear()
}

// Size returns the number of entries queued for the guild.
func (s *QueueStore) Size(guildID snowflake.ID) int {
	return s.GetOrCreate(guildID).Len()
}

// Titles returns up to maxDisplayedTitles titles in queue order and the
// true total count.
func (s *QueueStore) Titles(guildID snowflake.ID) ([]string, int) {
	return s.GetOrCreate(guildID).Titles(maxDisplayedTitles)
}
