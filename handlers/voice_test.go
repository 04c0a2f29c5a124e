package handlers

import (
	"io"
	"os"
	"testing"

	"Testificate/queue"

	"github.com/Strum355/log"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	log.InitSimpleLogger(&log.Config{Output: io.Discard})
	os.Exit(m.Run())
}

func testSession(t *testing.T, botID string) *discordgo.Session {
	s, err := discordgo.New("Bot test-token")
	assert.NoError(t, err)
	s.State.User = &discordgo.User{ID: botID}
	return s
}

func voiceUpdate(userID, guildID, channelID string) *discordgo.VoiceStateUpdate {
	return &discordgo.VoiceStateUpdate{
		VoiceState: &discordgo.VoiceState{
			UserID:    userID,
			GuildID:   guildID,
			ChannelID: channelID,
		},
	}
}

func TestVoiceHandler_BotDisconnectDestroysQueue(t *testing.T) {
	s := testSession(t, "bot-id")
	registry := queue.NewRegistry()
	q := queue.New("guild-1", nil, queue.Config{})
	registry.Set("guild-1", q)

	VoiceHandler(registry)(s, voiceUpdate("bot-id", "guild-1", ""))

	assert.Equal(t, queue.StateDestroyed, q.State())
	_, ok := registry.Get("guild-1")
	assert.False(t, ok)
}

func TestVoiceHandler_IgnoresOtherUsers(t *testing.T) {
	s := testSession(t, "bot-id")
	registry := queue.NewRegistry()
	q := queue.New("guild-1", nil, queue.Config{})
	registry.Set("guild-1", q)

	VoiceHandler(registry)(s, voiceUpdate("someone-else", "guild-1", ""))

	assert.Equal(t, queue.StateIdle, q.State())
	_, ok := registry.Get("guild-1")
	assert.True(t, ok)
}

func TestVoiceHandler_IgnoresChannelMoves(t *testing.T) {
	s := testSession(t, "bot-id")
	registry := queue.NewRegistry()
	q := queue.New("guild-1", nil, queue.Config{})
	registry.Set("guild-1", q)

	VoiceHandler(registry)(s, voiceUpdate("bot-id", "guild-1", "voice-2"))

	assert.Equal(t, queue.StateIdle, q.State())
}

func TestVoiceHandler_NoQueueIsNoop(t *testing.T) {
	s := testSession(t, "bot-id")
	registry := queue.NewRegistry()

	assert.NotPanics(t, func() {
		VoiceHandler(registry)(s, voiceUpdate("bot-id", "guild-1", ""))
	})
}
