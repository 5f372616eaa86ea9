package ports

import (
	"context"
)

// StreamResolver turns an entry's source reference into a playable locator
// understood by the AudioSink. Resolution may block for seconds and must be
// invoked outside the guild's serialization lock.
type StreamResolver interface {
	Resolve(ctx context.Context, sourceRef string) (string, error)
}
