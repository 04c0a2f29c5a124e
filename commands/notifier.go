package commands

import (
	"fmt"

	"Testificate/utils"
	"Testificate/yt"

	"github.com/bwmarrin/discordgo"
)

// channelNotifier publishes queue events to the text channel the queue was
// created from. It is only used for notification, never for control flow.
type channelNotifier struct {
	session   *discordgo.Session
	channelID string
}

func newChannelNotifier(s *discordgo.Session, channelID string) *channelNotifier {
	return &channelNotifier{session: s, channelID: channelID}
}

func (n *channelNotifier) NowPlaying(track *yt.Track) {
	n.session.ChannelMessageSend(n.channelID, fmt.Sprintf(
		"🎵 Now playing: **%s** (`%s`)",
		track.Title, utils.FormatTrackDuration(track.Duration),
	))
}

func (n *channelNotifier) TrackFailed(track *yt.Track, category yt.ErrorCategory) {
	n.session.ChannelMessageSend(n.channelID, fmt.Sprintf(
		"⚠️ Skipping **%s**: %s.",
		track.Title, category.UserMessage(),
	))
}
