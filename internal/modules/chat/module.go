package chat

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"
	"github.com/mbot-dev/multibot/internal/bot"
	"github.com/mbot-dev/multibot/internal/modules/chat/application/ports"
	"github.com/mbot-dev/multibot/internal/modules/chat/application/usecases"
	"github.com/mbot-dev/multibot/internal/modules/chat/domain"
	"github.com/mbot-dev/multibot/internal/modules/chat/infrastructure"
	"github.com/mbot-dev/multibot/internal/modules/chat/presentation"
)

func init() {
	bot.Register(&Module{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*Module)(nil)

// Module provides conversational replies with optional spoken output.
type Module struct {
	config   *Config
	handlers *presentation.Handlers
	clips    *infrastructure.ClipServer
}

// Name returns the module name.
func (m *Module) Name() string {
	return "chat"
}

// Commands returns the slash commands for this module.
func (m *Module) Commands() []*discordgo.ApplicationCommand {
	return presentation.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *Module) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"ask": m.handlers.HandleAsk,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *Module) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(s *discordgo.Session, message *discordgo.MessageCreate) {
			m.handlers.HandleMessageCreate(s, message)
		},
	}
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
	if deps.Session == nil {
		return fmt.Errorf("chat module requires a Discord session")
	}

	completer := infrastructure.NewCompletionClient(m.config.APIURL, m.config.APIKey, m.config.Model)
	limiter := usecases.NewGuildLimiter(
		time.Duration(m.config.CooldownSeconds)*time.Second,
		m.config.CooldownBurst,
	)
	history := domain.NewHistory(domain.DefaultHistoryLimit)

	// Speech is optional: without a voice adapter the module replies in
	// text only.
	var synthesizer ports.Synthesizer
	var clips ports.ClipPublisher
	var speaker ports.Speaker
	if deps.Voice != nil {
		synthesizer = infrastructure.NewFallbackSynthesizer(
			infrastructure.NewElevenLabsSynthesizer(m.config.ElevenLabsAPIKey, m.config.VoiceID),
			infrastructure.NewGoogleTranslateSynthesizer(m.config.TTSLanguage),
		)
		speaker = infrastructure.NewVoiceSpeaker(deps.Voice)

		m.clips = infrastructure.NewClipServer(m.config.ClipBaseURL)
		clips = m.clips
		go func() {
			if err := m.clips.Listen(m.config.ClipListenAddress); err != nil {
				slog.Error("clip server stopped", "error", err)
			}
		}()
	}

	service := usecases.NewChatService(history, completer, limiter, synthesizer, clips, speaker)
	m.handlers = presentation.NewHandlers(service, m.config.Prefix)

	slog.Info("chat module initialized",
		"model", m.config.Model,
		"speech", deps.Voice != nil,
	)

	return nil
}

// Shutdown cleans up module resources.
func (m *Module) Shutdown() error {
	if m.clips != nil {
		return m.clips.Shutdown()
	}
	return nil
}
