package ports

import (
	"github.com/disgoorg/snowflake/v2"
)

// Notifier sends user-visible status messages. Delivery is fire-and-forget:
// callers log returned errors but never let them alter playback state.
type Notifier interface {
	// NowPlaying announces that an entry started playing.
	NowPlaying(channelID snowflake.ID, title, requester string) error

	// EntryFailed reports that one entry could not be played.
	EntryFailed(channelID snowflake.ID, title string) error
}
