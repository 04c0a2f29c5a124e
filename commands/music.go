package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"Testificate/queue"
	"Testificate/utils"
	"Testificate/yt"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
)

// ensureQueue returns the guild's playback queue, joining the user's voice
// channel and creating the queue if needed.
func (r *Router) ensureQueue(s *discordgo.Session, m *discordgo.MessageCreate) (*queue.PlaybackQueue, error) {
	if q, ok := r.deps.Registry.Get(m.GuildID); ok && q.State() != queue.StateDestroyed {
		return q, nil
	}

	vc, err := connectUserVoiceChannel(s, m.GuildID, m.Author.ID)
	if err != nil {
		return nil, err
	}

	q := queue.New(m.GuildID, vc, queue.Config{
		Acquirer:     r.deps.Acquirer,
		NewPlayer:    queue.NewFFmpegPlayer,
		Notifier:     newChannelNotifier(s, m.ChannelID),
		MaxRetries:   viper.GetInt("music.maxretries"),
		RetryBackoff: time.Duration(viper.GetInt("music.retrybackoff")) * time.Second,
		AdvanceDelay: time.Duration(viper.GetInt("music.advancedelay")) * time.Second,
	})
	r.deps.Registry.Set(m.GuildID, q)
	return q, nil
}

// joinVoice connects the bot to the caller's voice channel and prepares a
// playback queue for the guild.
func (r *Router) joinVoice(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args string) *commandError {
	if !checkUserVoiceChannel(s, m) {
		return nil
	}

	if _, err := r.ensureQueue(s, m); err != nil {
		if errors.Is(err, errNoVoiceChannel) {
			s.ChannelMessageSend(m.ChannelID, "Join a voice channel first 😉")
			return nil
		}
		return &commandError{err, "Failed to join the voice channel"}
	}

	s.ChannelMessageSend(m.ChannelID, "👋 Joined! Queue up something with `play`.")
	return nil
}

// leaveVoice destroys the guild's queue and disconnects from voice.
// Idempotent: leaving when not connected just reports so.
func (r *Router) leaveVoice(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args string) *commandError {
	q, ok := r.deps.Registry.Get(m.GuildID)
	r.deps.Registry.Remove(m.GuildID)

	vc := s.VoiceConnections[m.GuildID]
	if vc == nil && ok {
		vc = q.VoiceConnection()
	}
	if vc != nil {
		vc.Disconnect()
	}

	if !ok && vc == nil {
		s.ChannelMessageSend(m.ChannelID, "I'm not in a voice channel 😶")
		return nil
	}
	s.ChannelMessageSend(m.ChannelID, "👋 Left the voice channel.")
	return nil
}

// playTrack resolves the query, enforces the duration cap and enqueues the
// track, starting playback when the queue is idle.
func (r *Router) playTrack(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args string) *commandError {
	query := strings.TrimSpace(args)
	if query == "" {
		s.ChannelMessageSend(m.ChannelID, "Usage: `play <YouTube link or search terms>`")
		return nil
	}

	if !checkUserVoiceChannel(s, m) {
		return nil
	}

	q, err := r.ensureQueue(s, m)
	if err != nil {
		if errors.Is(err, errNoVoiceChannel) {
			s.ChannelMessageSend(m.ChannelID, "Join a voice channel first 😉")
			return nil
		}
		return &commandError{err, "Failed to join the voice channel"}
	}

	resolveCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	track, err := r.deps.Resolver.Resolve(resolveCtx, query, m.Author.Username)
	if err != nil {
		if errors.Is(err, yt.ErrNotFound) {
			s.ChannelMessageSend(m.ChannelID, "❌ Couldn't find anything for that query.")
			return nil
		}
		return &commandError{err, "❌ Could not resolve the track"}
	}

	maxDuration := time.Duration(viper.GetInt("music.maxduration")) * time.Second
	if maxDuration > 0 && track.Duration > maxDuration {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf(
			"❌ **%s** is too long (`%s`, limit is `%s`).",
			track.Title,
			utils.FormatTrackDuration(track.Duration),
			utils.FormatTrackDuration(maxDuration),
		))
		return nil
	}

	position := q.Enqueue(track)
	if position == 0 {
		s.ChannelMessageSend(m.ChannelID, "The queue was shut down, use `join` and try again.")
		return nil
	}

	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf(
		"🎵 **%s** added to the queue (`%s`, position %d)",
		track.Title, utils.FormatTrackDuration(track.Duration), position,
	))
	return nil
}

// skipTrack stops only the current player; the queue advances by itself.
func (r *Router) skipTrack(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args string) *commandError {
	q, ok := r.deps.Registry.Get(m.GuildID)
	if !ok || !q.Skip() {
		s.ChannelMessageSend(m.ChannelID, "Nothing is playing right now 😶")
		return nil
	}
	s.ChannelMessageSend(m.ChannelID, "⏭️ Skipped")
	return nil
}

// stopQueue clears the queue and halts playback without leaving voice.
func (r *Router) stopQueue(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args string) *commandError {
	q, ok := r.deps.Registry.Get(m.GuildID)
	if !ok {
		s.ChannelMessageSend(m.ChannelID, "Nothing is playing right now 😶")
		return nil
	}
	q.Stop()
	s.ChannelMessageSend(m.ChannelID, "⏹️ Stopped and cleared the queue.")
	return nil
}

// showQueue renders the current track and pending list.
func (r *Router) showQueue(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args string) *commandError {
	q, ok := r.deps.Registry.Get(m.GuildID)
	if !ok {
		s.ChannelMessageSend(m.ChannelID, "The queue is empty.")
		return nil
	}

	current, pending := q.Snapshot()
	if current == nil && len(pending) == 0 {
		s.ChannelMessageSend(m.ChannelID, "The queue is empty.")
		return nil
	}

	var b strings.Builder
	if current != nil {
		fmt.Fprintf(&b, "▶️ **%s** (`%s`)\n", current.Title, utils.FormatTrackDuration(current.Duration))
	}
	for i, track := range pending {
		fmt.Fprintf(&b, "%d. %s (`%s`)\n", i+1, track.Title, utils.FormatTrackDuration(track.Duration))
	}

	s.ChannelMessageSend(m.ChannelID, b.String())
	return nil
}
