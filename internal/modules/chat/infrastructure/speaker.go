package infrastructure

import (
	"context"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	"github.com/mbot-dev/multibot/internal/modules/chat/application/ports"
	"github.com/mbot-dev/multibot/internal/voice"
)

// voicePlayer is the subset of the voice adapter used to play clips.
type voicePlayer interface {
	HasConnection(guildID snowflake.ID) bool
	IsPlaying(guildID snowflake.ID) bool
	LoadTracks(ctx context.Context, query string) (*voice.LoadResult, error)
	Play(ctx context.Context, guildID snowflake.ID, encoded string) error
}

// VoiceSpeaker plays published clips through the guild's voice connection.
type VoiceSpeaker struct {
	voice voicePlayer
}

// NewVoiceSpeaker creates a VoiceSpeaker.
func NewVoiceSpeaker(voice voicePlayer) *VoiceSpeaker {
	return &VoiceSpeaker{
		voice: voice,
	}
}

// CanSpeak reports whether the guild has an idle voice connection. Speech
// never interrupts other playback.
func (s *VoiceSpeaker) CanSpeak(guildID snowflake.ID) bool {
	return s.voice.HasConnection(guildID) && !s.voice.IsPlaying(guildID)
}

// Speak loads the clip URL on the audio node and plays it.
func (s *VoiceSpeaker) Speak(ctx context.Context, guildID snowflake.ID, clipURL string) error {
	result, err := s.voice.LoadTracks(ctx, clipURL)
	if err != nil {
		return fmt.Errorf("failed to load clip: %w", err)
	}
	if result.Type != voice.LoadTypeTrack || len(result.Tracks) == 0 {
		return fmt.Errorf("clip %q did not load as a track", clipURL)
	}

	if err := s.voice.Play(ctx, guildID, result.Tracks[0].Encoded); err != nil {
		return fmt.Errorf("failed to play clip: %w", err)
	}
	return nil
}

// Ensure VoiceSpeaker implements ports.Speaker.
var _ ports.Speaker = (*VoiceSpeaker)(nil)
