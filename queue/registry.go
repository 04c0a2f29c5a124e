package queue

import "sync"

// Registry maps guild IDs to their playback queues. It is owned by the
// command layer and injected where needed; queues themselves hold no global
// state.
type Registry struct {
	mu     sync.Mutex
	queues map[string]*PlaybackQueue
}

func NewRegistry() *Registry {
	return &Registry{queues: make(map[string]*PlaybackQueue)}
}

func (r *Registry) Get(guildID string) (*PlaybackQueue, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.queues[guildID]
	return q, ok
}

func (r *Registry) Set(guildID string, q *PlaybackQueue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queues[guildID] = q
}

// Remove destroys the guild's queue and drops it from the registry.
// Calling it for an unknown guild is a no-op.
func (r *Registry) Remove(guildID string) {
	r.mu.Lock()
	q, ok := r.queues[guildID]
	delete(r.queues, guildID)
	r.mu.Unlock()

	if ok {
		q.Destroy()
	}
}

// StopAll destroys every queue. Used during graceful shutdown.
func (r *Registry) StopAll() {
	r.mu.Lock()
	queues := make([]*PlaybackQueue, 0, len(r.queues))
	for _, q := range r.queues {
		queues = append(queues, q)
	}
	r.queues = make(map[string]*PlaybackQueue)
	r.mu.Unlock()

	for _, q := range queues {
		q.Destroy()
	}
}
