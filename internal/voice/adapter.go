package voice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"
)

// connectTimeout is the maximum time to wait for a voice connection to be established.
const connectTimeout = 10 * time.Second

// Config contains the Lavalink node connection configuration.
type Config struct {
	Address  string
	Password string
}

// pendingConnection tracks a voice join that is waiting for the gateway
// to deliver both VoiceStateUpdate and VoiceServerUpdate.
type pendingConnection struct {
	mu             sync.Mutex
	hasVoiceState  bool
	hasVoiceServer bool
	ready          chan struct{}
}

func (p *pendingConnection) onEvent(isVoiceState bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if isVoiceState {
		p.hasVoiceState = true
	} else {
		p.hasVoiceServer = true
	}

	if p.hasVoiceState && p.hasVoiceServer {
		select {
		case <-p.ready:
			// Already closed
		default:
			close(p.ready)
		}
	}
}

// Adapter wraps DisGoLink behind the surface the feature modules need:
// joining and leaving voice channels, resolving queries to playable track
// data, starting and stopping playback, and observing playback completion.
type Adapter struct {
	link    disgolink.Client
	session *discordgo.Session
	botID   snowflake.ID

	pendingMu sync.Mutex
	pending   map[snowflake.ID]*pendingConnection

	connectedMu sync.RWMutex
	connected   map[snowflake.ID]snowflake.ID // guild -> voice channel

	listenerMu sync.RWMutex
	listeners  []PlaybackEndListener
}

// NewAdapter creates an Adapter and connects it to the configured Lavalink node.
// The session must already be open so the bot user ID is known.
func NewAdapter(session *discordgo.Session, config Config) (*Adapter, error) {
	botID, err := snowflake.Parse(session.State.User.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bot ID: %w", err)
	}

	a := &Adapter{
		session:   session,
		botID:     botID,
		pending:   make(map[snowflake.ID]*pendingConnection),
		connected: make(map[snowflake.ID]snowflake.ID),
	}

	a.link = disgolink.New(botID,
		disgolink.WithListenerFunc(a.onTrackStart),
		disgolink.WithListenerFunc(a.onTrackEnd),
		disgolink.WithListenerFunc(a.onTrackException),
		disgolink.WithListenerFunc(a.onTrackStuck),
	)

	node, err := a.link.AddNode(context.Background(), disgolink.NodeConfig{
		Name:     "main",
		Address:  config.Address,
		Password: config.Password,
		Secure:   false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add Lavalink node: %w", err)
	}

	slog.Info("connected to Lavalink", "node", node.Config().Name, "address", config.Address)

	return a, nil
}

// OnPlaybackEnded registers a listener for playback completion events.
// Listeners are invoked from the Lavalink event goroutine and must not block.
func (a *Adapter) OnPlaybackEnded(listener PlaybackEndListener) {
	a.listenerMu.Lock()
	defer a.listenerMu.Unlock()
	a.listeners = append(a.listeners, listener)
}

// JoinChannel connects the bot to a voice channel and waits until the
// connection is usable (both gateway voice events received).
func (a *Adapter) JoinChannel(ctx context.Context, guildID, channelID snowflake.ID) error {
	pending := &pendingConnection{
		ready: make(chan struct{}),
	}

	a.pendingMu.Lock()
	a.pending[guildID] = pending
	a.pendingMu.Unlock()

	defer func() {
		a.pendingMu.Lock()
		delete(a.pending, guildID)
		a.pendingMu.Unlock()
	}()

	err := a.session.ChannelVoiceJoinManual(guildID.String(), channelID.String(), false, false)
	if err != nil {
		return fmt.Errorf("failed to join voice channel: %w", err)
	}

	select {
	case <-pending.ready:
	case <-ctx.Done():
		return fmt.Errorf("context cancelled while waiting for voice connection: %w", ctx.Err())
	case <-time.After(connectTimeout):
		return fmt.Errorf("timeout waiting for voice connection")
	}

	a.connectedMu.Lock()
	a.connected[guildID] = channelID
	a.connectedMu.Unlock()

	return nil
}

// LeaveChannel disconnects the bot from the guild's voice channel and
// destroys the guild's player.
func (a *Adapter) LeaveChannel(ctx context.Context, guildID snowflake.ID) error {
	player := a.link.ExistingPlayer(guildID)
	if player != nil {
		if err := player.Destroy(ctx); err != nil {
			slog.Warn("failed to destroy player", "guild", guildID, "error", err)
		}
	}

	a.connectedMu.Lock()
	delete(a.connected, guildID)
	a.connectedMu.Unlock()

	err := a.session.ChannelVoiceJoinManual(guildID.String(), "", false, false)
	if err != nil {
		return fmt.Errorf("failed to leave voice channel: %w", err)
	}
	return nil
}

// HasConnection reports whether the bot currently has a voice connection
// in the guild.
func (a *Adapter) HasConnection(guildID snowflake.ID) bool {
	a.connectedMu.RLock()
	defer a.connectedMu.RUnlock()

	_, ok := a.connected[guildID]
	return ok
}

// Play starts playback of an encoded track on the guild's player.
func (a *Adapter) Play(ctx context.Context, guildID snowflake.ID, encoded string) error {
	player := a.link.Player(guildID)

	if err := player.Update(ctx, lavalink.WithEncodedTrack(encoded)); err != nil {
		return fmt.Errorf("failed to play track: %w", err)
	}

	return nil
}

// Stop stops the guild's current playback. Stopping an idle player is a no-op.
func (a *Adapter) Stop(ctx context.Context, guildID snowflake.ID) error {
	player := a.link.ExistingPlayer(guildID)
	if player == nil {
		return nil
	}

	if err := player.Update(ctx, lavalink.WithNullTrack()); err != nil {
		return fmt.Errorf("failed to stop playback: %w", err)
	}

	return nil
}

// IsPlaying reports whether the guild's player currently has a track loaded.
func (a *Adapter) IsPlaying(guildID snowflake.ID) bool {
	player := a.link.ExistingPlayer(guildID)
	return player != nil && player.Track() != nil
}

// LoadResult represents the outcome of resolving a query on the node.
type LoadResult struct {
	Type       LoadType
	Tracks     []TrackData
	PlaylistID string
}

// LoadType represents the type of load result.
type LoadType string

const (
	LoadTypeTrack    LoadType = "track"
	LoadTypePlaylist LoadType = "playlist"
	LoadTypeSearch   LoadType = "search"
	LoadTypeEmpty    LoadType = "empty"
	LoadTypeError    LoadType = "error"
)

// TrackData describes one resolved track.
type TrackData struct {
	Encoded  string // opaque playable locator understood by Play
	Title    string
	Author   string
	URI      string
	Duration time.Duration
	IsStream bool
}

// LoadTracks resolves a query (URL, ytsearch: term, ...) on the best node.
func (a *Adapter) LoadTracks(ctx context.Context, query string) (*LoadResult, error) {
	node := a.link.BestNode()
	if node == nil {
		return nil, fmt.Errorf("no available Lavalink node")
	}

	result, err := node.LoadTracks(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracks: %w", err)
	}

	return convertLoadResult(result), nil
}

func convertLoadResult(result *lavalink.LoadResult) *LoadResult {
	switch data := result.Data.(type) {
	case lavalink.Track:
		return &LoadResult{
			Type:   LoadTypeTrack,
			Tracks: []TrackData{convertTrack(data)},
		}

	case lavalink.Playlist:
		tracks := make([]TrackData, len(data.Tracks))
		for i, track := range data.Tracks {
			tracks[i] = convertTrack(track)
		}
		return &LoadResult{
			Type:       LoadTypePlaylist,
			Tracks:     tracks,
			PlaylistID: data.Info.Name,
		}

	case lavalink.Search:
		tracks := make([]TrackData, len(data))
		for i, track := range data {
			tracks[i] = convertTrack(track)
		}
		return &LoadResult{
			Type:   LoadTypeSearch,
			Tracks: tracks,
		}

	case lavalink.Empty:
		return &LoadResult{Type: LoadTypeEmpty}

	case lavalink.Exception:
		return &LoadResult{Type: LoadTypeError}

	default:
		return &LoadResult{Type: LoadTypeEmpty}
	}
}

func convertTrack(track lavalink.Track) TrackData {
	info := track.Info

	uri := ""
	if info.URI != nil {
		uri = *info.URI
	}

	return TrackData{
		Encoded:  track.Encoded,
		Title:    info.Title,
		Author:   info.Author,
		URI:      uri,
		Duration: time.Duration(info.Length) * time.Millisecond,
		IsStream: info.IsStream,
	}
}

// HandleVoiceServerUpdate forwards Discord voice server updates to Lavalink.
// It must be registered as a session event handler.
func (a *Adapter) HandleVoiceServerUpdate(_ *discordgo.Session, event *discordgo.VoiceServerUpdate) {
	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice server update", "error", err)
		return
	}

	a.link.OnVoiceServerUpdate(context.Background(), guildID, event.Token, event.Endpoint)

	a.signalPending(guildID, false)
}

// HandleVoiceStateUpdate forwards the bot's own voice state updates to Lavalink.
// It must be registered as a session event handler.
func (a *Adapter) HandleVoiceStateUpdate(s *discordgo.Session, event *discordgo.VoiceStateUpdate) {
	if event.UserID != s.State.User.ID {
		return
	}

	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice state update", "error", err)
		return
	}

	var channelID *snowflake.ID
	if event.ChannelID != "" {
		id, err := snowflake.Parse(event.ChannelID)
		if err != nil {
			slog.Error("failed to parse channel ID in voice state update", "error", err)
			return
		}
		channelID = &id
	} else {
		// The bot was disconnected (kicked or moved out).
		a.connectedMu.Lock()
		delete(a.connected, guildID)
		a.connectedMu.Unlock()
	}

	a.link.OnVoiceStateUpdate(context.Background(), guildID, channelID, event.SessionID)

	a.signalPending(guildID, true)
}

func (a *Adapter) signalPending(guildID snowflake.ID, isVoiceState bool) {
	a.pendingMu.Lock()
	pending := a.pending[guildID]
	a.pendingMu.Unlock()

	if pending != nil {
		pending.onEvent(isVoiceState)
	}
}

// Close shuts down the Lavalink connection.
func (a *Adapter) Close() {
	a.link.Close()
}

func (a *Adapter) onTrackStart(player disgolink.Player, event lavalink.TrackStartEvent) {
	slog.Debug("track started",
		"guild", player.GuildID(),
		"title", event.Track.Info.Title,
	)
}

func (a *Adapter) onTrackEnd(player disgolink.Player, event lavalink.TrackEndEvent) {
	slog.Debug("track ended",
		"guild", player.GuildID(),
		"title", event.Track.Info.Title,
		"reason", event.Reason,
	)

	a.emitPlaybackEnd(PlaybackEnd{
		GuildID: player.GuildID(),
		Reason:  convertEndReason(event.Reason),
	})
}

func (a *Adapter) onTrackException(player disgolink.Player, event lavalink.TrackExceptionEvent) {
	slog.Warn("track exception",
		"guild", player.GuildID(),
		"title", event.Track.Info.Title,
		"message", event.Exception.Message,
	)
}

func (a *Adapter) onTrackStuck(player disgolink.Player, event lavalink.TrackStuckEvent) {
	slog.Warn("track stuck",
		"guild", player.GuildID(),
		"title", event.Track.Info.Title,
	)
}

func (a *Adapter) emitPlaybackEnd(event PlaybackEnd) {
	a.listenerMu.RLock()
	listeners := a.listeners
	a.listenerMu.RUnlock()

	for _, listener := range listeners {
		listener(event)
	}
}

func convertEndReason(reason lavalink.TrackEndReason) EndReason {
	switch reason {
	case lavalink.TrackEndReasonFinished:
		return EndReasonFinished
	case lavalink.TrackEndReasonLoadFailed:
		return EndReasonLoadFailed
	case lavalink.TrackEndReasonStopped:
		return EndReasonStopped
	case lavalink.TrackEndReasonReplaced:
		return EndReasonReplaced
	default:
		return EndReasonCleanup
	}
}
