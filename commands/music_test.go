package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"Testificate/queue"
	"Testificate/yt"

	"github.com/Strum355/log"
	"github.com/bwmarrin/discordgo"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	log.InitSimpleLogger(&log.Config{Output: io.Discard})
	os.Exit(m.Run())
}

// recordingTransport swallows the session's REST calls and remembers their
// bodies, so handlers run without ever reaching Discord.
type recordingTransport struct {
	mu     sync.Mutex
	bodies []string
}

func (t *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	body := ""
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		body = string(data)
	}
	t.mu.Lock()
	t.bodies = append(t.bodies, body)
	t.mu.Unlock()

	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader("{}")),
	}, nil
}

func (t *recordingTransport) sent() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.Join(t.bodies, "\n")
}

type fakeResolver struct {
	track *yt.Track
	err   error
}

func (r *fakeResolver) Resolve(ctx context.Context, query, requestedBy string) (*yt.Track, error) {
	if r.err != nil {
		return nil, r.err
	}
	track := *r.track
	track.RequestedBy = requestedBy
	return &track, nil
}

type stubAcquirer struct{}

func (stubAcquirer) OpenStream(ctx context.Context, track *yt.Track) (io.ReadCloser, error) {
	return nil, &yt.CategorizedError{
		Category: yt.CategoryUnavailable,
		Err:      errors.New("streams are stubbed out"),
	}
}

// newMusicTestRouter builds a router whose session records messages instead
// of sending them, with the author already sitting in a voice channel and a
// queue registered for the guild.
func newMusicTestRouter(t *testing.T, resolver Resolver) (*Router, *queue.PlaybackQueue, *recordingTransport, *discordgo.Session, *discordgo.MessageCreate) {
	transport := &recordingTransport{}
	s, err := discordgo.New("Bot test-token")
	assert.NoError(t, err)
	s.Client.Transport = transport
	s.State.User = &discordgo.User{ID: "bot-id"}
	s.State.GuildAdd(&discordgo.Guild{
		ID: "guild-1",
		VoiceStates: []*discordgo.VoiceState{
			{UserID: "user-1", GuildID: "guild-1", ChannelID: "voice-1"},
		},
	})

	registry := queue.NewRegistry()
	q := queue.New("guild-1", nil, queue.Config{Acquirer: stubAcquirer{}})
	registry.Set("guild-1", q)

	router := NewRouter(&Deps{Registry: registry, Resolver: resolver})

	m := &discordgo.MessageCreate{Message: &discordgo.Message{
		GuildID:   "guild-1",
		ChannelID: "chan-1",
		Author:    &discordgo.User{ID: "user-1", Username: "tester"},
	}}
	return router, q, transport, s, m
}

func TestPlayTrack_RejectsOverDurationCap(t *testing.T) {
	viper.Set("music.maxduration", 300)
	defer viper.Set("music.maxduration", 0)

	resolver := &fakeResolver{track: &yt.Track{
		ID:       "vid-1",
		Title:    "Long Mix",
		Duration: 10 * time.Minute,
	}}
	router, q, transport, s, m := newMusicTestRouter(t, resolver)

	cmdErr := router.playTrack(context.Background(), s, m, "long mix")

	assert.Nil(t, cmdErr)
	assert.Contains(t, transport.sent(), "too long")
	assert.Contains(t, transport.sent(), "10:00")
	assert.Contains(t, transport.sent(), "5:00")

	current, pending := q.Snapshot()
	assert.Nil(t, current)
	assert.Empty(t, pending)
	assert.Equal(t, queue.StateIdle, q.State())
}

func TestPlayTrack_EnqueuesWithinCap(t *testing.T) {
	viper.Set("music.maxduration", 300)
	defer viper.Set("music.maxduration", 0)

	resolver := &fakeResolver{track: &yt.Track{
		ID:       "vid-1",
		Title:    "Short Song",
		Duration: 200 * time.Second,
	}}
	router, _, transport, s, m := newMusicTestRouter(t, resolver)

	cmdErr := router.playTrack(context.Background(), s, m, "short song")

	assert.Nil(t, cmdErr)
	assert.Contains(t, transport.sent(), "added to the queue")
	assert.Contains(t, transport.sent(), "position 1")
}

func TestPlayTrack_NotFound(t *testing.T) {
	resolver := &fakeResolver{err: fmt.Errorf("%w: no results", yt.ErrNotFound)}
	router, q, transport, s, m := newMusicTestRouter(t, resolver)

	cmdErr := router.playTrack(context.Background(), s, m, "definitely nothing")

	assert.Nil(t, cmdErr)
	assert.Contains(t, transport.sent(), "find anything")

	current, pending := q.Snapshot()
	assert.Nil(t, current)
	assert.Empty(t, pending)
}
