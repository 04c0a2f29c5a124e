package handlers

import (
	"strings"

	"Testificate/commands"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

// HelpEmbedding creates the embedding for the help menu.
func HelpEmbedding(s *discordgo.Session, m *discordgo.MessageCreate, router *commands.Router) {
	prefix := viper.GetString("prefix")

	var b strings.Builder
	for _, name := range router.Names() {
		b.WriteString("`" + prefix + name + "`\n")
	}

	botAvatarURL := s.State.User.AvatarURL("64")
	helpEmbed := &discordgo.MessageEmbed{
		Title:       "Testificate Help",
		Description: b.String(),
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: botAvatarURL,
		},
	}
	s.ChannelMessageSendEmbed(m.ChannelID, helpEmbed)
}
