package handlers

import (
	"Testificate/queue"

	"github.com/Strum355/log"
	"github.com/bwmarrin/discordgo"
)

// VoiceHandler builds the handler that destroys a guild's queue when the
// bot leaves or is disconnected from its voice channel. Without it a
// gateway-side disconnect would leave a queue holding a dead voice
// connection, failing every pending track one by one.
func VoiceHandler(registry *queue.Registry) func(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	return func(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
		if s.State.User == nil || v.UserID != s.State.User.ID {
			return
		}
		// A non-empty channel means a join or a move, not a disconnect.
		if v.ChannelID != "" {
			return
		}
		if _, ok := registry.Get(v.GuildID); !ok {
			return
		}

		log.WithFields(log.Fields{
			"guild_id": v.GuildID,
		}).Info("Voice session ended, destroying queue")
		registry.Remove(v.GuildID)
	}
}
