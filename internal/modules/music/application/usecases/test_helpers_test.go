package usecases

import (
	"context"
	"errors"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	"github.com/mbot-dev/multibot/internal/modules/music/domain"
)

var errResolve = errors.New("resolve failed")

// mockResolver resolves "ok:*" references to locators and fails everything
// else. An optional gate channel blocks Resolve until released, to let tests
// race stops against in-flight resolutions.
type mockResolver struct {
	mu       sync.Mutex
	calls    []string
	gate     chan struct{}
	resolved int
}

func (m *mockResolver) Resolve(_ context.Context, sourceRef string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, sourceRef)
	gate := m.gate
	m.mu.Unlock()

	if gate != nil {
		<-gate
	}

	if len(sourceRef) >= 3 && sourceRef[:3] == "ok:" {
		m.mu.Lock()
		m.resolved++
		m.mu.Unlock()
		return "encoded-" + sourceRef[3:], nil
	}
	return "", errResolve
}

func (m *mockResolver) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockSink records play/stop calls and simulates the sink's playing state.
type mockSink struct {
	mu        sync.Mutex
	connected map[snowflake.ID]bool
	playing   map[snowflake.ID]bool
	plays     []string
	stops     int
	playErr   error
}

func newMockSink() *mockSink {
	return &mockSink{
		connected: make(map[snowflake.ID]bool),
		playing:   make(map[snowflake.ID]bool),
	}
}

func (m *mockSink) connect(guildID snowflake.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected[guildID] = true
}

func (m *mockSink) Play(_ context.Context, guildID snowflake.ID, locator string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playErr != nil {
		return m.playErr
	}
	m.plays = append(m.plays, locator)
	m.playing[guildID] = true
	return nil
}

func (m *mockSink) Stop(_ context.Context, guildID snowflake.ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stops++
	m.playing[guildID] = false
	return nil
}

func (m *mockSink) IsPlaying(guildID snowflake.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing[guildID]
}

func (m *mockSink) HasConnection(guildID snowflake.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected[guildID]
}

func (m *mockSink) playCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.plays)
}

func (m *mockSink) stopCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stops
}

// mockNotifier records notifications.
type mockNotifier struct {
	mu         sync.Mutex
	nowPlaying []string
	failures   []string
}

func (m *mockNotifier) NowPlaying(_ snowflake.ID, title, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nowPlaying = append(m.nowPlaying, title)
	return nil
}

func (m *mockNotifier) EntryFailed(_ snowflake.ID, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, title)
	return nil
}

func (m *mockNotifier) nowPlayingTitles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.nowPlaying))
	copy(out, m.nowPlaying)
	return out
}

func (m *mockNotifier) failureTitles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.failures))
	copy(out, m.failures)
	return out
}

func okEntry(name string) domain.Entry {
	return domain.Entry{
		SourceRef:      "ok:" + name,
		Title:          name,
		RequesterName:  "tester",
		ReplyChannelID: snowflake.ID(99),
	}
}

func badEntry(name string) domain.Entry {
	return domain.Entry{
		SourceRef:      "bad:" + name,
		Title:          name,
		RequesterName:  "tester",
		ReplyChannelID: snowflake.ID(99),
	}
}

func newTestController(capacity int) (*Controller, *mockResolver, *mockSink, *mockNotifier) {
	store := domain.NewQueueStore(capacity)
	resolver := &mockResolver{}
	sink := newMockSink()
	notifier := &mockNotifier{}
	return NewController(store, resolver, sink, notifier), resolver, sink, notifier
}
