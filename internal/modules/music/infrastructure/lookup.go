package infrastructure

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/kkdai/youtube/v2"
	"github.com/mbot-dev/multibot/internal/modules/music/application/ports"
	"github.com/mbot-dev/multibot/internal/voice"
)

// videoClient is the subset of the YouTube client used for metadata lookups.
type videoClient interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
	GetPlaylistContext(ctx context.Context, url string) (*youtube.Playlist, error)
}

// TrackLookup expands user queries into playable candidates. YouTube URLs
// are inspected with the YouTube API client so titles and playlist contents
// are known before anything touches the audio node; everything else goes
// through the node's own loader.
type TrackLookup struct {
	videos videoClient
	loader trackLoader
}

// NewTrackLookup creates a TrackLookup backed by the given YouTube client
// and node loader.
func NewTrackLookup(videos videoClient, loader trackLoader) *TrackLookup {
	return &TrackLookup{
		videos: videos,
		loader: loader,
	}
}

// Lookup expands a query into candidates. A playlist URL yields one
// candidate per video, a video URL yields one, and free text yields the top
// search result.
func (l *TrackLookup) Lookup(ctx context.Context, query string) ([]ports.Candidate, error) {
	if u, ok := parseYouTubeURL(query); ok {
		if isPlaylistURL(u) {
			return l.lookupPlaylist(ctx, query)
		}
		return l.lookupVideo(ctx, query)
	}

	if isURL(query) {
		return l.lookupViaNode(ctx, query)
	}

	return l.lookupViaNode(ctx, "ytsearch:"+query)
}

func (l *TrackLookup) lookupVideo(ctx context.Context, videoURL string) ([]ports.Candidate, error) {
	video, err := l.videos.GetVideoContext(ctx, videoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to look up video: %w", err)
	}

	return []ports.Candidate{{
		SourceRef: watchURL(video.ID),
		Title:     video.Title,
	}}, nil
}

func (l *TrackLookup) lookupPlaylist(
	ctx context.Context,
	playlistURL string,
) ([]ports.Candidate, error) {
	playlist, err := l.videos.GetPlaylistContext(ctx, playlistURL)
	if err != nil {
		return nil, fmt.Errorf("failed to look up playlist: %w", err)
	}

	candidates := make([]ports.Candidate, 0, len(playlist.Videos))
	for _, entry := range playlist.Videos {
		candidates = append(candidates, ports.Candidate{
			SourceRef: watchURL(entry.ID),
			Title:     entry.Title,
		})
	}
	return candidates, nil
}

// lookupViaNode resolves non-YouTube URLs and search terms on the audio
// node. Searches keep only the top result; other playlists keep every track.
func (l *TrackLookup) lookupViaNode(ctx context.Context, query string) ([]ports.Candidate, error) {
	result, err := l.loader.LoadTracks(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", query, err)
	}

	switch result.Type {
	case voice.LoadTypeTrack, voice.LoadTypePlaylist:
		candidates := make([]ports.Candidate, 0, len(result.Tracks))
		for _, track := range result.Tracks {
			candidates = append(candidates, trackCandidate(track, query))
		}
		return candidates, nil

	case voice.LoadTypeSearch:
		if len(result.Tracks) == 0 {
			return nil, nil
		}
		return []ports.Candidate{trackCandidate(result.Tracks[0], query)}, nil

	case voice.LoadTypeEmpty:
		return nil, nil

	default:
		return nil, fmt.Errorf("node failed to load %q", query)
	}
}

func trackCandidate(track voice.TrackData, query string) ports.Candidate {
	sourceRef := track.URI
	if sourceRef == "" {
		sourceRef = query
	}
	return ports.Candidate{
		SourceRef: sourceRef,
		Title:     track.Title,
	}
}

func watchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

func parseYouTubeURL(query string) (*url.URL, bool) {
	u, err := url.Parse(query)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	switch host {
	case "youtube.com", "m.youtube.com", "music.youtube.com", "youtu.be":
		return u, true
	default:
		return nil, false
	}
}

func isPlaylistURL(u *url.URL) bool {
	if u.Path == "/playlist" {
		return true
	}
	// Watch URLs with a list parameter enqueue the whole playlist.
	return u.Query().Get("list") != ""
}

func isURL(query string) bool {
	u, err := url.Parse(query)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Ensure TrackLookup implements ports.SourceLookup.
var _ ports.SourceLookup = (*TrackLookup)(nil)
