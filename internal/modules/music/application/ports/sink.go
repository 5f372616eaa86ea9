package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
)

// AudioSink outputs audio into a guild's voice connection. Completion of a
// playback attempt is observed through the module's playback-ended events,
// not by polling.
type AudioSink interface {
	// Play starts playback of the resolved locator for the guild.
	Play(ctx context.Context, guildID snowflake.ID, locator string) error

	// Stop ends the guild's current playback. Stopping an idle guild is a no-op.
	Stop(ctx context.Context, guildID snowflake.ID) error

	// IsPlaying reports whether the guild's sink is currently outputting.
	IsPlaying(guildID snowflake.ID) bool

	// HasConnection reports whether the guild has an active voice connection.
	HasConnection(guildID snowflake.ID) bool
}
