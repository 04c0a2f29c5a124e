package queue

import (
	"context"
	"io"
	"sync"
	"time"

	"Testificate/yt"

	"github.com/Strum355/log"
	"github.com/bwmarrin/discordgo"
)

// State is the playback queue's position in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateStarting
	StatePlaying
	StateRetrying
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StatePlaying:
		return "playing"
	case StateRetrying:
		return "retrying"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Acquirer obtains a fresh audio stream for a track. A stream is never
// reused across attempts; retries re-acquire.
type Acquirer interface {
	OpenStream(ctx context.Context, track *yt.Track) (io.ReadCloser, error)
}

// Player consumes exactly one stream. Play blocks until the track finishes,
// fails, or Stop is called; Stop must be idempotent and must make Play
// return nil.
type Player interface {
	Play(stream io.ReadCloser) error
	Stop()
}

// PlayerFactory builds a fresh player bound to a voice connection. A new
// player is constructed for every track so no listeners or buffers leak
// across plays.
type PlayerFactory func(vc *discordgo.VoiceConnection) Player

// Notifier publishes user-facing queue events. At most one message is sent
// per track start and one per terminal failure.
type Notifier interface {
	NowPlaying(track *yt.Track)
	TrackFailed(track *yt.Track, category yt.ErrorCategory)
}

// Config carries the queue's collaborators and numeric limits. Limits come
// from the caller, never from constants inside the queue.
type Config struct {
	Acquirer     Acquirer
	NewPlayer    PlayerFactory
	Notifier     Notifier
	MaxRetries   int
	RetryBackoff time.Duration
	AdvanceDelay time.Duration
}

// PlaybackQueue is the per-guild ordered pending list plus current-track
// state and retry policy. Tracks play in strict FIFO order. A single run
// goroutine drives acquisition and playback, so at most one
// starting/playing sequence is ever in flight.
type PlaybackQueue struct {
	guildID string
	vc      *discordgo.VoiceConnection
	cfg     Config

	mu         sync.Mutex
	pending    []*yt.Track
	current    *yt.Track
	state      State
	retryCount int
	player     Player
	generation int
	destroyed  bool
	acquireCtx context.Context
	cancel     context.CancelFunc
}

func New(guildID string, vc *discordgo.VoiceConnection, cfg Config) *PlaybackQueue {
	ctx, cancel := context.WithCancel(context.Background())
	return &PlaybackQueue{
		guildID:    guildID,
		vc:         vc,
		cfg:        cfg,
		state:      StateIdle,
		acquireCtx: ctx,
		cancel:     cancel,
	}
}

// dead reports whether the run loop identified by gen may still act.
// Callers must hold mu.
func (q *PlaybackQueue) dead(gen int) bool {
	return q.destroyed || q.generation != gen
}

// Enqueue appends a track and starts playback if the queue is idle. It
// returns the track's 1-based position counting the current track, or 0 if
// the queue has been destroyed.
func (q *PlaybackQueue) Enqueue(track *yt.Track) int {
	q.mu.Lock()
	if q.destroyed {
		q.mu.Unlock()
		return 0
	}

	q.pending = append(q.pending, track)
	position := len(q.pending)
	if q.current != nil {
		position++
	}

	start := q.state == StateIdle
	if start {
		// Claim the flight before releasing the lock so a concurrent
		// Enqueue cannot spawn a second run loop.
		q.state = StateStarting
		q.generation++
	}
	gen := q.generation
	q.mu.Unlock()

	if start {
		go q.run(gen)
	}
	return position
}

// run is the play-next loop: dequeue, play (with retries), advance. It
// exits when the queue empties or its generation is invalidated by Stop or
// Destroy.
func (q *PlaybackQueue) run(gen int) {
	for {
		q.mu.Lock()
		if q.dead(gen) {
			q.mu.Unlock()
			return
		}
		if len(q.pending) == 0 {
			q.current = nil
			q.state = StateIdle
			q.mu.Unlock()
			return
		}

		track := q.pending[0]
		q.pending = q.pending[1:]
		q.current = track
		q.retryCount = 0
		q.state = StateStarting
		q.mu.Unlock()

		q.playTrack(gen, track)

		q.mu.Lock()
		if q.dead(gen) {
			q.mu.Unlock()
			return
		}
		q.current = nil
		q.retryCount = 0
		q.mu.Unlock()

		// Brief pause before advancing so a faulty queue cannot tight-loop.
		if !q.sleep(gen, q.cfg.AdvanceDelay) {
			return
		}
	}
}

// playTrack acquires a stream for the track and plays it, retrying
// recoverable acquisition failures up to MaxRetries times. It returns once
// the track is finished, skipped, or abandoned.
func (q *PlaybackQueue) playTrack(gen int, track *yt.Track) {
	for {
		q.mu.Lock()
		ctx := q.acquireCtx
		q.mu.Unlock()

		stream, err := q.cfg.Acquirer.OpenStream(ctx, track)

		q.mu.Lock()
		if q.dead(gen) {
			q.mu.Unlock()
			if stream != nil {
				stream.Close()
			}
			return
		}
		q.mu.Unlock()

		if err != nil {
			category := yt.Categorize(err)

			q.mu.Lock()
			retry := category.Retryable() && q.retryCount < q.cfg.MaxRetries
			if retry {
				q.retryCount++
				q.state = StateRetrying
			}
			attempt := q.retryCount
			q.mu.Unlock()

			if !retry {
				log.WithFields(log.Fields{
					"guild_id": q.guildID,
					"track":    track.Title,
					"category": category.String(),
				}).Error("Giving up on track after acquisition failure")
				q.notifyFailed(gen, track, category)
				return
			}

			log.WithFields(log.Fields{
				"guild_id": q.guildID,
				"track":    track.Title,
				"attempt":  attempt,
			}).Info("Retrying stream acquisition")

			if !q.sleep(gen, q.cfg.RetryBackoff) {
				return
			}

			q.mu.Lock()
			if q.dead(gen) {
				q.mu.Unlock()
				return
			}
			q.state = StateStarting
			q.mu.Unlock()
			continue
		}

		player := q.cfg.NewPlayer(q.vc)

		q.mu.Lock()
		if q.dead(gen) {
			q.mu.Unlock()
			player.Stop()
			stream.Close()
			return
		}
		if q.player != nil {
			// Release the previous player before replacing it; players are
			// never reused across tracks.
			q.player.Stop()
		}
		q.player = player
		q.state = StatePlaying
		q.mu.Unlock()

		q.notifyNowPlaying(gen, track)

		playErr := player.Play(stream)
		stream.Close()

		q.mu.Lock()
		wasKilled := q.dead(gen)
		if q.player == player {
			q.player = nil
		}
		q.mu.Unlock()

		if playErr != nil && !wasKilled {
			// The stream started and then broke mid-play: one notice, no
			// retry, advance to the next track.
			log.WithError(playErr).WithFields(log.Fields{
				"guild_id": q.guildID,
				"track":    track.Title,
			}).Error("Playback failed")
			q.notifyFailed(gen, track, yt.Categorize(playErr))
		}
		return
	}
}

// sleep waits for d and reports whether the run loop may continue. A Stop
// or Destroy issued while sleeping invalidates the generation, so timers
// firing afterwards become no-ops.
func (q *PlaybackQueue) sleep(gen int, d time.Duration) bool {
	if d > 0 {
		time.Sleep(d)
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return !q.dead(gen)
}

func (q *PlaybackQueue) notifyNowPlaying(gen int, track *yt.Track) {
	q.mu.Lock()
	skip := q.dead(gen)
	q.mu.Unlock()
	if skip || q.cfg.Notifier == nil {
		return
	}
	q.cfg.Notifier.NowPlaying(track)
}

func (q *PlaybackQueue) notifyFailed(gen int, track *yt.Track, category yt.ErrorCategory) {
	q.mu.Lock()
	skip := q.dead(gen)
	q.mu.Unlock()
	if skip || q.cfg.Notifier == nil {
		return
	}
	q.cfg.Notifier.TrackFailed(track, category)
}

// Skip stops only the current player; the run loop then advances on its
// own, so skipping can never double-advance the queue.
func (q *PlaybackQueue) Skip() bool {
	q.mu.Lock()
	player := q.player
	q.mu.Unlock()

	if player == nil {
		return false
	}
	player.Stop()
	return true
}

// Stop clears all pending tracks and halts the current player without
// leaving voice. Idempotent; any in-flight continuation notices the
// generation bump and goes quiet.
func (q *PlaybackQueue) Stop() {
	q.halt(false)
}

// Destroy is Stop plus a terminal flag: no play attempt may ever happen on
// this queue again. Reachable from any state and idempotent.
func (q *PlaybackQueue) Destroy() {
	q.halt(true)
}

func (q *PlaybackQueue) halt(destroy bool) {
	q.mu.Lock()
	q.generation++
	// Unblock any in-flight acquisition; a stopped queue gets a fresh
	// context so later plays still work.
	q.cancel()
	if !destroy {
		q.acquireCtx, q.cancel = context.WithCancel(context.Background())
	}
	q.pending = nil
	q.current = nil
	q.retryCount = 0
	if destroy {
		q.destroyed = true
		q.state = StateDestroyed
	} else if q.state != StateDestroyed {
		q.state = StateIdle
	}
	player := q.player
	q.player = nil
	q.mu.Unlock()

	if player != nil {
		player.Stop()
	}
}

// State returns the queue's current lifecycle state.
func (q *PlaybackQueue) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Playing reports whether a player is active for the current track.
func (q *PlaybackQueue) Playing() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state == StatePlaying
}

// Snapshot returns a read-only copy of the current track and pending list
// for display.
func (q *PlaybackQueue) Snapshot() (*yt.Track, []*yt.Track) {
	q.mu.Lock()
	defer q.mu.Unlock()

	pendingCopy := make([]*yt.Track, len(q.pending))
	copy(pendingCopy, q.pending)
	return q.current, pendingCopy
}

// VoiceConnection returns the borrowed voice connection for this queue.
func (q *PlaybackQueue) VoiceConnection() *discordgo.VoiceConnection {
	return q.vc
}
