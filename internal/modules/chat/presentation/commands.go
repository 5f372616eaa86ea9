package presentation

import "github.com/bwmarrin/discordgo"

// Commands returns all slash commands for the chat module.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "ask",
			Description: "Ask the assistant a question",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "prompt",
					Description: "What to ask",
					Required:    true,
				},
			},
		},
	}
}
