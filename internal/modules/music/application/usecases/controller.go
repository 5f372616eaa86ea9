package usecases

import (
	"context"
	"log/slog"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/mbot-dev/multibot/internal/modules/music/application/ports"
	"github.com/mbot-dev/multibot/internal/modules/music/domain"
)

// guildPlayback is the controller's authoritative per-guild playback state.
// The playing flag flips to true in the same critical section that dequeues
// an entry, so two concurrent advances can never start two attempts. The
// generation counter invalidates in-flight resolutions when the guild is
// stopped.
type guildPlayback struct {
	mu      sync.Mutex
	playing bool
	gen     uint64
}

// Controller drives per-guild playback: whenever a guild's queue is
// non-empty and nothing is playing, exactly one playback attempt is in
// flight, and every completion (natural end, failure, skip, stop) triggers
// evaluation of the next entry. The controller owns playback state only;
// queue state lives in the QueueStore.
type Controller struct {
	store    *domain.QueueStore
	resolver ports.StreamResolver
	sink     ports.AudioSink
	notifier ports.Notifier

	mu     sync.Mutex
	guilds map[snowflake.ID]*guildPlayback
}

// NewController creates a Controller.
func NewController(
	store *domain.QueueStore,
	resolver ports.StreamResolver,
	sink ports.AudioSink,
	notifier ports.Notifier,
) *Controller {
	return &Controller{
		store:    store,
		resolver: resolver,
		sink:     sink,
		notifier: notifier,
		guilds:   make(map[snowflake.ID]*guildPlayback),
	}
}

func (c *Controller) guild(guildID snowflake.ID) *guildPlayback {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.guilds[guildID]
	if !ok {
		g = &guildPlayback{}
		c.guilds[guildID] = g
	}
	return g
}

// EnqueueRequest appends an entry to the guild's queue. It returns
// ErrQueueFull when the queue is at capacity; the entry is accepted even if
// the guild has no voice connection yet (playback stays deferred until one
// exists). The caller signals AdvanceIfIdle separately.
func (c *Controller) EnqueueRequest(guildID snowflake.ID, entry domain.Entry) error {
	if !c.store.Enqueue(guildID, entry) {
		return ErrQueueFull
	}
	return nil
}

// ListTitles returns the queued titles for display (capped) and the true
// total count.
func (c *Controller) ListTitles(guildID snowflake.ID) ([]string, int) {
	return c.store.Titles(guildID)
}

// QueueSize returns the number of entries queued for the guild.
func (c *Controller) QueueSize(guildID snowflake.ID) int {
	return c.store.Size(guildID)
}

// AdvanceIfIdle starts the next playback attempt if the guild is idle and
// its queue is non-empty. It is safe to invoke concurrently for the same
// guild: at most one attempt starts. Entries that fail to resolve or play
// are reported and skipped; a single bad entry never stalls the queue. The
// loop is iterative, so completion-driven re-invocation never grows the
// call stack.
func (c *Controller) AdvanceIfIdle(ctx context.Context, guildID snowflake.ID) {
	if !c.sink.HasConnection(guildID) {
		// Nothing to play into; a later join re-invokes us.
		slog.Debug("no voice connection, deferring advance", "guild", guildID)
		return
	}

	g := c.guild(guildID)

	for {
		g.mu.Lock()
		if g.playing {
			g.mu.Unlock()
			return
		}
		entry, ok := c.store.Dequeue(guildID)
		if !ok {
			g.mu.Unlock()
			return
		}
		g.playing = true
		gen := g.gen
		g.mu.Unlock()

		// Resolution may block for seconds; it runs outside the guild lock.
		locator, err := c.resolver.Resolve(ctx, entry.SourceRef)
		if err != nil {
			slog.Warn("failed to resolve entry, skipping",
				"guild", guildID,
				"title", entry.Title,
				"error", err,
			)
			c.reportFailure(entry)
			c.setPlaying(g, false)
			continue
		}

		g.mu.Lock()
		if g.gen != gen {
			// The guild was stopped while resolving; the late result
			// must not start playback.
			g.playing = false
			g.mu.Unlock()
			return
		}
		g.mu.Unlock()

		if err := c.sink.Play(ctx, guildID, locator); err != nil {
			slog.Warn("failed to start playback, skipping entry",
				"guild", guildID,
				"title", entry.Title,
				"error", err,
			)
			c.reportFailure(entry)
			c.setPlaying(g, false)
			continue
		}

		g.mu.Lock()
		stale := g.gen != gen
		g.mu.Unlock()
		if stale {
			// A stop raced the play call; stopping again routes through the
			// normal completion path, which finds the cleared queue.
			if err := c.sink.Stop(ctx, guildID); err != nil {
				slog.Warn("failed to stop cancelled playback", "guild", guildID, "error", err)
			}
			return
		}

		if err := c.notifier.NowPlaying(entry.ReplyChannelID, entry.Title, entry.RequesterName); err != nil {
			slog.Warn("failed to send now playing notification", "guild", guildID, "error", err)
		}

		slog.Info("now playing",
			"guild", guildID,
			"title", entry.Title,
			"requester", entry.RequesterName,
			"queued", c.store.Size(guildID),
		)
		return
	}
}

// HandlePlaybackEnded reacts to a completed playback attempt. It fires once
// per attempt regardless of outcome (natural end, failure, skip, stop) and
// is the sole mechanism driving auto-advance.
func (c *Controller) HandlePlaybackEnded(ctx context.Context, guildID snowflake.ID) {
	c.setPlaying(c.guild(guildID), false)
	c.AdvanceIfIdle(ctx, guildID)
}

// Skip forcibly ends the current playback, if any, and reports whether
// something was skipped. Advance happens solely through the resulting
// completion event; the queue is not touched.
func (c *Controller) Skip(ctx context.Context, guildID snowflake.ID) (bool, error) {
	g := c.guild(guildID)

	g.mu.Lock()
	playing := g.playing
	g.mu.Unlock()

	if !playing {
		return false, nil
	}

	if err := c.sink.Stop(ctx, guildID); err != nil {
		return false, err
	}
	return true, nil
}

// Stop ends the current playback and clears the guild's queue. The
// generation bump cancels any in-flight resolution so a late result cannot
// start playback; after the completion event fires the queue is empty and
// advance is a no-op.
func (c *Controller) Stop(ctx context.Context, guildID snowflake.ID) error {
	g := c.guild(guildID)

	g.mu.Lock()
	g.gen++
	g.mu.Unlock()

	c.store.Clear(guildID)

	if err := c.sink.Stop(ctx, guildID); err != nil {
		return err
	}

	slog.Info("stopped playback and cleared queue", "guild", guildID)
	return nil
}

func (c *Controller) setPlaying(g *guildPlayback, playing bool) {
	g.mu.Lock()
	g.playing = playing
	g.mu.Unlock()
}

func (c *Controller) reportFailure(entry domain.Entry) {
	if err := c.notifier.EntryFailed(entry.ReplyChannelID, entry.Title); err != nil {
		slog.Warn("failed to send failure notification", "error", err)
	}
}
