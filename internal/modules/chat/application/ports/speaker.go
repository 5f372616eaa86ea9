package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
)

// Speaker plays published audio clips into a guild's voice channel.
type Speaker interface {
	// CanSpeak reports whether the guild's voice connection is available
	// and not busy with other playback.
	CanSpeak(guildID snowflake.ID) bool

	// Speak plays the clip at the given URL in the guild's voice channel.
	Speak(ctx context.Context, guildID snowflake.ID, clipURL string) error
}
