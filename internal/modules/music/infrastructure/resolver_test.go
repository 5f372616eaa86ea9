package infrastructure

import (
	"context"
	"errors"
	"testing"

	"github.com/mbot-dev/multibot/internal/voice"
)

// fakeLoader returns canned load results keyed by query.
type fakeLoader struct {
	results map[string]*voice.LoadResult
	err     error
	queries []string
}

func (f *fakeLoader) LoadTracks(_ context.Context, query string) (*voice.LoadResult, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	if result, ok := f.results[query]; ok {
		return result, nil
	}
	return &voice.LoadResult{Type: voice.LoadTypeEmpty}, nil
}

func trackResult(loadType voice.LoadType, tracks ...voice.TrackData) *voice.LoadResult {
	return &voice.LoadResult{Type: loadType, Tracks: tracks}
}

func TestLavalinkResolver_Resolve(t *testing.T) {
	tests := []struct {
		name    string
		result  *voice.LoadResult
		want    string
		wantErr bool
	}{
		{
			name:   "single track",
			result: trackResult(voice.LoadTypeTrack, voice.TrackData{Encoded: "enc-1"}),
			want:   "enc-1",
		},
		{
			name: "search takes first result",
			result: trackResult(voice.LoadTypeSearch,
				voice.TrackData{Encoded: "enc-1"},
				voice.TrackData{Encoded: "enc-2"},
			),
			want: "enc-1",
		},
		{
			name: "playlist takes first track",
			result: trackResult(voice.LoadTypePlaylist,
				voice.TrackData{Encoded: "enc-a"},
				voice.TrackData{Encoded: "enc-b"},
			),
			want: "enc-a",
		},
		{
			name:    "empty result",
			result:  &voice.LoadResult{Type: voice.LoadTypeEmpty},
			wantErr: true,
		},
		{
			name:    "node error result",
			result:  &voice.LoadResult{Type: voice.LoadTypeError},
			wantErr: true,
		},
		{
			name:    "track type with no tracks",
			result:  trackResult(voice.LoadTypeTrack),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := &fakeLoader{results: map[string]*voice.LoadResult{"q": tt.result}}
			resolver := NewLavalinkResolver(loader)

			got, err := resolver.Resolve(context.Background(), "q")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestLavalinkResolver_PropagatesLoadError(t *testing.T) {
	loader := &fakeLoader{err: errors.New("node unreachable")}
	resolver := NewLavalinkResolver(loader)

	if _, err := resolver.Resolve(context.Background(), "q"); err == nil {
		t.Fatal("expected error, got nil")
	}
}
