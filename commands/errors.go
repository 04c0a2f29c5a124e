package commands

import (
	"github.com/Strum355/log"
	"github.com/bwmarrin/discordgo"
)

type commandError struct {
	err     error
	message string
}

// Handle logs the error and reports the user-facing message in the channel
// the command came from.
func (e *commandError) Handle(s *discordgo.Session, m *discordgo.MessageCreate) {
	log.WithError(e.err).Error(e.message)
	s.ChannelMessageSend(m.ChannelID, e.message)
}
