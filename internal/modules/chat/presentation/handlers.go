package presentation

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/mbot-dev/multibot/internal/bot"
	"github.com/mbot-dev/multibot/internal/modules/chat/application/usecases"
)

const colorError = 0xE74C3C

// Handlers holds the chat command and message handlers.
type Handlers struct {
	chat   *usecases.ChatService
	prefix string
}

// NewHandlers creates new Handlers. The prefix triggers replies to plain
// messages, e.g. "!ia".
func NewHandlers(chat *usecases.ChatService, prefix string) *Handlers {
	return &Handlers{
		chat:   chat,
		prefix: prefix,
	}
}

// HandleAsk handles the /ask command.
func (h *Handlers) HandleAsk(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	channelID, err := snowflake.Parse(i.ChannelID)
	if err != nil {
		return respondError(r, "Invalid channel")
	}

	var prompt string
	options := i.ApplicationCommandData().Options
	for _, opt := range options {
		if opt.Name == "prompt" {
			prompt = opt.StringValue()
		}
	}

	output, err := h.chat.Reply(context.Background(), usecases.ReplyInput{
		GuildID:   guildID,
		ChannelID: channelID,
		Prompt:    prompt,
	})
	if err != nil {
		if errors.Is(err, usecases.ErrRateLimited) {
			return respondError(r, "Too many requests, try again in a moment.")
		}
		if errors.Is(err, usecases.ErrEmptyPrompt) {
			return respondError(r, "The prompt is empty.")
		}
		return respondError(r, "Failed to generate a reply.")
	}

	go h.speak(guildID, output.Text)

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: output.Text,
		},
	})
}

// HandleMessageCreate replies to plain messages starting with the prefix.
func (h *Handlers) HandleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !strings.HasPrefix(m.Content, h.prefix) {
		return
	}

	prompt := strings.TrimSpace(strings.TrimPrefix(m.Content, h.prefix))
	if prompt == "" {
		return
	}

	guildID, err := snowflake.Parse(m.GuildID)
	if err != nil {
		return
	}
	channelID, err := snowflake.Parse(m.ChannelID)
	if err != nil {
		return
	}

	if err := s.ChannelTyping(m.ChannelID); err != nil {
		slog.Debug("failed to send typing indicator", "channel", m.ChannelID, "error", err)
	}

	output, err := h.chat.Reply(context.Background(), usecases.ReplyInput{
		GuildID:   guildID,
		ChannelID: channelID,
		Prompt:    prompt,
	})
	if err != nil {
		if errors.Is(err, usecases.ErrRateLimited) {
			return
		}
		slog.Warn("failed to generate reply", "channel", m.ChannelID, "error", err)
		if _, err := s.ChannelMessageSend(m.ChannelID, "Lo siento, ocurrió un error al solicitar la IA."); err != nil {
			slog.Warn("failed to send error message", "channel", m.ChannelID, "error", err)
		}
		return
	}

	if _, err := s.ChannelMessageSendReply(m.ChannelID, output.Text, m.Reference()); err != nil {
		slog.Warn("failed to send reply", "channel", m.ChannelID, "error", err)
		return
	}

	go h.speak(guildID, output.Text)
}

func (h *Handlers) speak(guildID snowflake.ID, text string) {
	spoken, err := h.chat.Speak(context.Background(), guildID, text)
	if err != nil {
		slog.Warn("failed to speak reply", "guild", guildID, "error", err)
		return
	}
	if spoken {
		slog.Debug("spoke reply", "guild", guildID)
	}
}

func respondError(r bot.Responder, message string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       "Error",
					Description: message,
					Color:       colorError,
				},
			},
		},
	})
}
