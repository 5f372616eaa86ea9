package usecases

import "errors"

// Errors returned by the chat service.
var (
	// ErrRateLimited is returned when a guild has exhausted its reply budget.
	ErrRateLimited = errors.New("too many requests, slow down")

	// ErrEmptyPrompt is returned when the prompt contains no text.
	ErrEmptyPrompt = errors.New("the prompt is empty")
)
