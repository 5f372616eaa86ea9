package presentation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/mbot-dev/multibot/internal/bot"
	"github.com/mbot-dev/multibot/internal/modules/music/application/ports"
	"github.com/mbot-dev/multibot/internal/modules/music/application/usecases"
	"github.com/mbot-dev/multibot/internal/modules/music/domain"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
)

// voiceConnector is the subset of the voice adapter the handlers use.
type voiceConnector interface {
	JoinChannel(ctx context.Context, guildID, channelID snowflake.ID) error
	LeaveChannel(ctx context.Context, guildID snowflake.ID) error
	HasConnection(guildID snowflake.ID) bool
}

// Handlers holds all the command handlers.
type Handlers struct {
	controller *usecases.Controller
	lookup     ports.SourceLookup
	voiceState ports.VoiceStateProvider
	voice      voiceConnector
}

// NewHandlers creates new Handlers.
func NewHandlers(
	controller *usecases.Controller,
	lookup ports.SourceLookup,
	voiceState ports.VoiceStateProvider,
	voice voiceConnector,
) *Handlers {
	return &Handlers{
		controller: controller,
		lookup:     lookup,
		voiceState: voiceState,
		voice:      voice,
	}
}

// HandleJoin handles the /join command.
func (h *Handlers) HandleJoin(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	userID, err := snowflake.Parse(i.Member.User.ID)
	if err != nil {
		return respondError(r, "Invalid user")
	}

	var voiceChannelID snowflake.ID
	options := i.ApplicationCommandData().Options
	for _, opt := range options {
		if opt.Name == "channel" {
			voiceChannelID, err = snowflake.Parse(opt.ChannelValue(s).ID)
			if err != nil {
				return respondError(r, "Invalid voice channel")
			}
		}
	}

	if voiceChannelID == 0 {
		voiceChannelID, err = h.voiceState.UserVoiceChannel(guildID, userID)
		if err != nil || voiceChannelID == 0 {
			return respondError(r, "Join a voice channel first, or specify one.")
		}
	}

	if err := h.voice.JoinChannel(ctx, guildID, voiceChannelID); err != nil {
		return respondError(r, "Failed to join the voice channel.")
	}

	// Entries queued before the connection existed start now.
	go h.controller.AdvanceIfIdle(context.Background(), guildID)

	return respondMessage(r, fmt.Sprintf("Connected to <#%d>.", voiceChannelID))
}

// HandleLeave handles the /leave command.
func (h *Handlers) HandleLeave(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	if !h.voice.HasConnection(guildID) {
		return respondError(r, "Not connected to a voice channel.")
	}

	if err := h.controller.Stop(ctx, guildID); err != nil {
		return respondError(r, "Failed to stop playback.")
	}

	if err := h.voice.LeaveChannel(ctx, guildID); err != nil {
		return respondError(r, "Failed to leave the voice channel.")
	}

	return respondMessage(r, "Disconnected.")
}

// HandlePlay handles the /play command.
func (h *Handlers) HandlePlay(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	userID, err := snowflake.Parse(i.Member.User.ID)
	if err != nil {
		return respondError(r, "Invalid user")
	}

	replyChannelID, err := snowflake.Parse(i.ChannelID)
	if err != nil {
		return respondError(r, "Invalid channel")
	}

	var query string
	options := i.ApplicationCommandData().Options
	for _, opt := range options {
		if opt.Name == "query" {
			query = opt.StringValue()
		}
	}

	if !h.voice.HasConnection(guildID) {
		voiceChannelID, err := h.voiceState.UserVoiceChannel(guildID, userID)
		if err != nil || voiceChannelID == 0 {
			return respondError(r, "Join a voice channel first.")
		}
		if err := h.voice.JoinChannel(ctx, guildID, voiceChannelID); err != nil {
			return respondError(r, "Failed to join the voice channel.")
		}
	}

	candidates, err := h.lookup.Lookup(ctx, query)
	if err != nil {
		return respondError(r, "Failed to look up the query.")
	}
	if len(candidates) == 0 {
		return respondError(r, "No matches found.")
	}

	requester := getDisplayName(i.Member)

	var added, rejected int
	for _, candidate := range candidates {
		entry := domain.Entry{
			SourceRef:      candidate.SourceRef,
			Title:          candidate.Title,
			RequesterName:  requester,
			ReplyChannelID: replyChannelID,
		}
		if err := h.controller.EnqueueRequest(guildID, entry); err != nil {
			if errors.Is(err, usecases.ErrQueueFull) {
				rejected++
				continue
			}
			return respondError(r, "Failed to queue the track.")
		}
		added++
	}

	go h.controller.AdvanceIfIdle(context.Background(), guildID)

	return respondQueued(r, candidates, added, rejected)
}

// HandleSkip handles the /skip command.
func (h *Handlers) HandleSkip(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	skipped, err := h.controller.Skip(context.Background(), guildID)
	if err != nil {
		return respondError(r, "Failed to skip the current track.")
	}
	if !skipped {
		return respondError(r, "Nothing is playing.")
	}

	return respondMessage(r, "Skipped the current track.")
}

// HandleStop handles the /stop command.
func (h *Handlers) HandleStop(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	if err := h.controller.Stop(context.Background(), guildID); err != nil {
		return respondError(r, "Failed to stop playback.")
	}

	return respondMessage(r, "Stopped playback and cleared the queue.")
}

// HandleQueue handles the /queue command.
func (h *Handlers) HandleQueue(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	titles, total := h.controller.ListTitles(guildID)
	if total == 0 {
		return respondMessage(r, "The queue is empty.")
	}

	var sb strings.Builder
	for idx, title := range titles {
		fmt.Fprintf(&sb, "%d. %s\n", idx+1, title)
	}
	if total > len(titles) {
		fmt.Fprintf(&sb, "... and %d more", total-len(titles))
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Title:       fmt.Sprintf("Queue (%d)", total),
					Description: sb.String(),
					Color:       colorSuccess,
				},
			},
		},
	})
}

// Response helpers.

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

func respondMessage(r bot.Responder, message string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Description: message,
					Color:       colorSuccess,
				},
			},
		},
	})
}

func respondQueued(r bot.Responder, candidates []ports.Candidate, added, rejected int) error {
	var description string
	switch {
	case added == 1 && rejected == 0:
		description = fmt.Sprintf("Added **%s** to the queue.", candidates[0].Title)
	case rejected == 0:
		description = fmt.Sprintf("Added **%d** tracks to the queue.", added)
	case added == 0:
		description = "The queue is full."
	default:
		description = fmt.Sprintf(
			"Added **%d** tracks to the queue; **%d** did not fit.",
			added, rejected,
		)
	}

	color := colorSuccess
	if added == 0 {
		color = colorError
	}

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Description: description,
					Color:       color,
				},
			},
		},
	})
}

// getDisplayName returns the effective display name for a guild member.
// Priority: guild nickname > global display name > username.
func getDisplayName(member *discordgo.Member) string {
	if member.Nick != "" {
		return member.Nick
	}
	if member.User.GlobalName != "" {
		return member.User.GlobalName
	}
	return member.User.Username
}
