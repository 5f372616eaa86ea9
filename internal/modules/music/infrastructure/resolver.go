package infrastructure

import (
	"context"
	"fmt"

	"github.com/mbot-dev/multibot/internal/modules/music/application/ports"
	"github.com/mbot-dev/multibot/internal/voice"
)

// trackLoader is the subset of the voice adapter used to resolve queries on
// the audio node.
type trackLoader interface {
	LoadTracks(ctx context.Context, query string) (*voice.LoadResult, error)
}

// LavalinkResolver resolves source references (URLs or search queries) to
// encoded track locators via the Lavalink node.
type LavalinkResolver struct {
	loader trackLoader
}

// NewLavalinkResolver creates a new LavalinkResolver.
func NewLavalinkResolver(loader trackLoader) *LavalinkResolver {
	return &LavalinkResolver{
		loader: loader,
	}
}

// Resolve loads the source reference on the node and returns the encoded
// locator of the first matching track.
func (r *LavalinkResolver) Resolve(ctx context.Context, sourceRef string) (string, error) {
	result, err := r.loader.LoadTracks(ctx, sourceRef)
	if err != nil {
		return "", fmt.Errorf("failed to load %q: %w", sourceRef, err)
	}

	switch result.Type {
	case voice.LoadTypeTrack, voice.LoadTypePlaylist, voice.LoadTypeSearch:
		if len(result.Tracks) == 0 {
			return "", fmt.Errorf("no tracks in load result for %q", sourceRef)
		}
		return result.Tracks[0].Encoded, nil
	case voice.LoadTypeEmpty:
		return "", fmt.Errorf("no matches for %q", sourceRef)
	default:
		return "", fmt.Errorf("node failed to load %q", sourceRef)
	}
}

// Ensure LavalinkResolver implements ports.StreamResolver.
var _ ports.StreamResolver = (*LavalinkResolver)(nil)
