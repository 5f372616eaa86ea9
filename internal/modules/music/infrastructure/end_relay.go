package infrastructure

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mbot-dev/multibot/internal/voice"
)

// DefaultEndEventBufferSize is the default buffer size for the relay channel.
const DefaultEndEventBufferSize = 64

// PlaybackEndRelay decouples the audio node's event goroutine from playback
// advancement. Publish is non-blocking; a dispatcher goroutine delivers
// events to registered handlers in order.
type PlaybackEndRelay struct {
	events chan voice.PlaybackEnd

	mu       sync.RWMutex
	handlers []func(context.Context, voice.PlaybackEnd)
	closed   bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPlaybackEndRelay creates a PlaybackEndRelay with the given buffer size
// and starts its dispatcher.
func NewPlaybackEndRelay(bufferSize int) *PlaybackEndRelay {
	if bufferSize <= 0 {
		bufferSize = DefaultEndEventBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	r := &PlaybackEndRelay{
		events: make(chan voice.PlaybackEnd, bufferSize),
		ctx:    ctx,
		cancel: cancel,
	}

	r.wg.Add(1)
	go r.dispatch()

	return r
}

func (r *PlaybackEndRelay) dispatch() {
	defer r.wg.Done()
	for {
		select {
		case <-r.ctx.Done():
			return
		case event, ok := <-r.events:
			if !ok {
				return
			}
			r.mu.RLock()
			handlers := r.handlers
			r.mu.RUnlock()
			for _, handler := range handlers {
				handler(r.ctx, event)
			}
		}
	}
}

// Publish enqueues a playback end event for dispatch. Non-blocking: if the
// buffer is full, the event is dropped with a warning.
func (r *PlaybackEndRelay) Publish(event voice.PlaybackEnd) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		slog.Warn("attempted to publish to closed playback end relay", "guild", event.GuildID)
		return
	}

	select {
	case r.events <- event:
		slog.Debug("published playback end event", "guild", event.GuildID, "reason", event.Reason)
	default:
		slog.Warn("playback end buffer full, dropping event", "guild", event.GuildID)
	}
}

// OnPlaybackEnd registers a handler for playback end events.
func (r *PlaybackEndRelay) OnPlaybackEnd(handler func(context.Context, voice.PlaybackEnd)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, handler)
}

// Close stops the dispatcher. After Close, published events are discarded.
func (r *PlaybackEndRelay) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	r.cancel()
	close(r.events)
	r.wg.Wait()

	slog.Debug("playback end relay closed")
}
