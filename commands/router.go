package commands

import (
	"context"
	"sort"

	"Testificate/economy"
	"Testificate/exaroton"
	"Testificate/queue"
	"Testificate/yt"

	"github.com/Strum355/log"
	"github.com/bwmarrin/discordgo"
)

// HandlerFunc handles one text command. args is the message content after
// the command word, already trimmed.
type HandlerFunc func(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args string) *commandError

// Resolver turns a query or URL into a playable track.
type Resolver interface {
	Resolve(ctx context.Context, query, requestedBy string) (*yt.Track, error)
}

// Deps are the collaborators the command handlers act on. The queue
// registry lives here, injected into every handler, so the playback core
// itself carries no global state.
type Deps struct {
	Registry *queue.Registry
	Resolver Resolver
	Acquirer queue.Acquirer
	Exaroton *exaroton.Client
	Economy  *economy.Store
}

// Router maps command words to handlers.
type Router struct {
	deps     *Deps
	handlers map[string]HandlerFunc
}

func NewRouter(deps *Deps) *Router {
	r := &Router{
		deps:     deps,
		handlers: map[string]HandlerFunc{},
	}

	r.Add("join", r.joinVoice)
	r.Add("leave", r.leaveVoice)
	r.Add("play", r.playTrack)
	r.Add("skip", r.skipTrack)
	r.Add("stop", r.stopQueue)
	r.Add("queue", r.showQueue)

	r.Add("time", r.serverTime)
	r.Add("status", r.serverStatus)

	r.Add("balance", r.showBalance)
	r.Add("daily", r.claimDaily)
	r.Add("flip", r.flipCoin)

	return r
}

func (r *Router) Add(name string, handler HandlerFunc) {
	r.handlers[name] = handler
}

// Names returns the registered command words, sorted, for the help menu.
func (r *Router) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch routes one parsed command to its handler. Unknown commands are
// ignored; handler errors are reported in-channel.
func (r *Router) Dispatch(s *discordgo.Session, m *discordgo.MessageCreate, command, args string) {
	handler, ok := r.handlers[command]
	if !ok {
		return
	}

	ctx := context.WithValue(context.Background(), log.Key, log.Fields{
		"author_id":  m.Author.ID,
		"channel_id": m.ChannelID,
		"guild_id":   m.GuildID,
		"user":       m.Author.Username,
		"command":    command,
	})
	log.WithContext(ctx).Info("Invoking command")

	if cmdErr := handler(ctx, s, m, args); cmdErr != nil {
		cmdErr.Handle(s, m)
	}
}
