package ports

import "github.com/disgoorg/snowflake/v2"

// VoiceStateProvider exposes Discord voice state lookups.
type VoiceStateProvider interface {
	// UserVoiceChannel returns the voice channel the user is currently in,
	// or 0 if they are not in one.
	UserVoiceChannel(guildID, userID snowflake.ID) (snowflake.ID, error)
}
