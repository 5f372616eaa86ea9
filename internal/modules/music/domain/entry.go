package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// Entry is one pending playback request. The source reference is resolved
// lazily at playback time; the title is fixed at enqueue time and never
// re-fetched. An entry is removed from its queue the moment it is popped
// for a playback attempt and is never requeued.
type Entry struct {
	SourceRef      string       // URL or search text identifying what to play
	Title          string       // display title obtained at enqueue time
	RequesterName  string       // display name of the user who requested it
	ReplyChannelID snowflake.ID // text channel for status messages
}
