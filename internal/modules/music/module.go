package music

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/kkdai/youtube/v2"
	"github.com/mbot-dev/multibot/internal/bot"
	"github.com/mbot-dev/multibot/internal/modules/music/application/usecases"
	"github.com/mbot-dev/multibot/internal/modules/music/domain"
	"github.com/mbot-dev/multibot/internal/modules/music/infrastructure"
	"github.com/mbot-dev/multibot/internal/modules/music/presentation"
	"github.com/mbot-dev/multibot/internal/voice"
)

func init() {
	bot.Register(&Module{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*Module)(nil)

// Module provides music playback commands.
type Module struct {
	config     *Config
	controller *usecases.Controller
	handlers   *presentation.Handlers
	relay      *infrastructure.PlaybackEndRelay
}

// Name returns the module name.
func (m *Module) Name() string {
	return "music"
}

// Commands returns the slash commands for this module.
func (m *Module) Commands() []*discordgo.ApplicationCommand {
	return presentation.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *Module) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"join":  m.handlers.HandleJoin,
		"leave": m.handlers.HandleLeave,
		"play":  m.handlers.HandlePlay,
		"skip":  m.handlers.HandleSkip,
		"stop":  m.handlers.HandleStop,
		"queue": m.handlers.HandleQueue,
	}
}

// EventHandlers returns the event handlers for this module. Voice gateway
// events are forwarded to the adapter at the bot level, so there are none.
func (m *Module) EventHandlers() []bot.EventHandler {
	return nil
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *Module) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *Module) Init(deps bot.ModuleDependencies) error {
	if deps.Session == nil || deps.Voice == nil {
		return fmt.Errorf("music module requires a Discord session and voice adapter")
	}

	store := domain.NewQueueStore(m.config.QueueCapacity)
	resolver := infrastructure.NewLavalinkResolver(deps.Voice)
	notifier := infrastructure.NewDiscordNotifier(deps.Session)
	m.controller = usecases.NewController(store, resolver, deps.Voice, notifier)

	lookup := infrastructure.NewTrackLookup(&youtube.Client{}, deps.Voice)
	voiceState := infrastructure.NewVoiceStateProvider(deps.Session)
	m.handlers = presentation.NewHandlers(m.controller, lookup, voiceState, deps.Voice)

	// Playback end events arrive on the node's event goroutine; the relay
	// hands them off so advancing never blocks it.
	m.relay = infrastructure.NewPlaybackEndRelay(infrastructure.DefaultEndEventBufferSize)
	m.relay.OnPlaybackEnd(func(ctx context.Context, event voice.PlaybackEnd) {
		if event.Reason == voice.EndReasonReplaced {
			// A replaced track means a new one already started; advancing
			// here would double-start.
			return
		}
		m.controller.HandlePlaybackEnded(ctx, event.GuildID)
	})
	deps.Voice.OnPlaybackEnded(m.relay.Publish)

	slog.Info("music module initialized", "queue_capacity", m.config.QueueCapacity)

	return nil
}

// Shutdown cleans up module resources.
func (m *Module) Shutdown() error {
	if m.relay != nil {
		m.relay.Close()
	}
	return nil
}
