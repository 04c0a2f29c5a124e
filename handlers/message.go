package handlers

import (
	"strings"

	"Testificate/commands"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

// MessageHandler builds the handler that parses prefixed text commands and
// hands them to the router.
func MessageHandler(router *commands.Router) func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(s *discordgo.Session, m *discordgo.MessageCreate) {
		// Ignore the bot's own messages and other bots.
		if m.Author.ID == s.State.User.ID || m.Author.Bot {
			return
		}

		prefix := viper.GetString("prefix")
		if len(m.Content) == 0 || len(prefix) == 0 {
			return
		}
		if !strings.HasPrefix(m.Content, prefix) {
			return
		}

		body := strings.TrimPrefix(m.Content, prefix)
		command, args, _ := strings.Cut(body, " ")
		command = strings.ToLower(strings.TrimSpace(command))

		switch command {
		case "":
			s.ChannelMessageSend(m.ChannelID, "type `"+prefix+"help` to open the help menu.")
		case "help":
			HelpEmbedding(s, m, router)
		default:
			router.Dispatch(s, m, command, strings.TrimSpace(args))
		}
	}
}
