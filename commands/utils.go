package commands

import (
	"errors"

	"github.com/bwmarrin/discordgo"
)

var errNoVoiceChannel = errors.New("user not in a voice channel")

// connectUserVoiceChannel connects the bot to the voice channel the user is
// currently in. The connection is requested unmuted and undeafened so the
// bot can both speak and hear; joining deafened silences playback on some
// clients.
func connectUserVoiceChannel(s *discordgo.Session, guildID, userID string) (*discordgo.VoiceConnection, error) {
	vcState, err := s.State.VoiceState(guildID, userID)
	if err != nil || vcState == nil || vcState.ChannelID == "" {
		return nil, errNoVoiceChannel
	}

	if vc, ok := s.VoiceConnections[guildID]; ok && vc != nil {
		if vc.ChannelID == vcState.ChannelID {
			return vc, nil
		}
	}

	return s.ChannelVoiceJoin(guildID, vcState.ChannelID, false, false)
}

// checkUserVoiceChannel checks whether the user shares a voice channel with
// the bot, replying with guidance when they do not.
func checkUserVoiceChannel(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	vs, err := s.State.VoiceState(m.GuildID, m.Author.ID)
	if err != nil || vs == nil || vs.ChannelID == "" {
		s.ChannelMessageSend(m.ChannelID, "Join a voice channel first 😉")
		return false
	}

	if vc, ok := s.VoiceConnections[m.GuildID]; ok && vc != nil && vc.ChannelID != vs.ChannelID {
		s.ChannelMessageSend(m.ChannelID, "I'm already in another voice channel 😅")
		return false
	}

	return true
}
