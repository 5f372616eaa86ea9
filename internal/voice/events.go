package voice

import (
	"github.com/disgoorg/snowflake/v2"
)

// EndReason describes why a playback attempt ended.
type EndReason string

const (
	// EndReasonFinished means the track played to its natural end.
	EndReasonFinished EndReason = "finished"
	// EndReasonLoadFailed means the sink could not play the track.
	EndReasonLoadFailed EndReason = "load_failed"
	// EndReasonStopped means playback was stopped explicitly (skip or stop).
	EndReasonStopped EndReason = "stopped"
	// EndReasonReplaced means the track was replaced by another.
	EndReasonReplaced EndReason = "replaced"
	// EndReasonCleanup means the node cleaned the player up.
	EndReasonCleanup EndReason = "cleanup"
)

// Failed reports whether the attempt ended because the sink could not play it.
func (r EndReason) Failed() bool {
	return r == EndReasonLoadFailed
}

// PlaybackEnd is emitted once per playback attempt, whatever the outcome.
type PlaybackEnd struct {
	GuildID snowflake.ID
	Reason  EndReason
}

// PlaybackEndListener receives PlaybackEnd events from the adapter.
type PlaybackEndListener func(PlaybackEnd)
