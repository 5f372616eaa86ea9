package usecases

import "errors"

// Errors returned by the playback controller.
var (
	// ErrQueueFull is returned when an enqueue is rejected because the
	// guild's queue is at capacity.
	ErrQueueFull = errors.New("the queue is full")

	// ErrNoResults is returned when a query resolves to no playable items.
	ErrNoResults = errors.New("no results found")
)
