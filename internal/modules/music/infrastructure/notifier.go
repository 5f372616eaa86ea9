package infrastructure

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/mbot-dev/multibot/internal/modules/music/application/ports"
)

// Embed colors.
const (
	colorGreen = 0x2ECC71
	colorRed   = 0xE74C3C
)

// DiscordNotifier sends playback status embeds to Discord channels.
type DiscordNotifier struct {
	session *discordgo.Session
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(session *discordgo.Session) *DiscordNotifier {
	return &DiscordNotifier{
		session: session,
	}
}

// NowPlaying sends a "Now Playing" embed to the channel.
func (n *DiscordNotifier) NowPlaying(channelID snowflake.ID, title, requester string) error {
	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name: "Now Playing",
		},
		Description: fmt.Sprintf("**%s**", title),
		Color:       colorGreen,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Requested by %s", requester),
		},
	}

	_, err := n.session.ChannelMessageSendEmbed(channelID.String(), embed)
	return err
}

// EntryFailed sends an error embed reporting that an entry could not be played.
func (n *DiscordNotifier) EntryFailed(channelID snowflake.ID, title string) error {
	embed := &discordgo.MessageEmbed{
		Description: fmt.Sprintf("Failed to play **%s**, skipping.", title),
		Color:       colorRed,
	}

	_, err := n.session.ChannelMessageSendEmbed(channelID.String(), embed)
	return err
}

// Ensure DiscordNotifier implements ports.Notifier.
var _ ports.Notifier = (*DiscordNotifier)(nil)
