package ports

import (
	"context"
)

// Candidate is one playable item found for a user's query, with the display
// title fixed at lookup time.
type Candidate struct {
	SourceRef string
	Title     string
}

// SourceLookup expands a user query (URL, playlist URL, or search text) into
// zero or more candidates at enqueue time.
type SourceLookup interface {
	Lookup(ctx context.Context, query string) ([]Candidate, error)
}
