package status

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/mbot-dev/multibot/internal/bot"
)

// Handler answers the /ping command with liveness information.
type Handler struct {
	startedAt time.Time
}

// NewHandler creates a Handler. Uptime is measured from startedAt.
func NewHandler(startedAt time.Time) *Handler {
	return &Handler{
		startedAt: startedAt,
	}
}

// HandlePing handles the /ping command.
func (h *Handler) HandlePing(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	uptime := time.Since(h.startedAt).Round(time.Second)

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("Pong! Up %s.", uptime),
		},
	})
}
