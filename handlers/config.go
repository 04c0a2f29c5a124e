package handlers

import (
	"Testificate/commands"
	"Testificate/queue"

	"github.com/bwmarrin/discordgo"
)

// HandlerConfig configures intents and wires the message and voice-state
// handlers.
func HandlerConfig(s *discordgo.Session, router *commands.Router, registry *queue.Registry) {
	s.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsGuilds |
		discordgo.IntentsGuildVoiceStates | discordgo.IntentsMessageContent
	s.AddHandler(MessageHandler(router))
	s.AddHandler(VoiceHandler(registry))
}
