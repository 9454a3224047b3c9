package session

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/mgoltzsche/ai-assistant-chat/internal/pubsub"
)

// Session couples a controller with the feed of its transcript updates.
type Session struct {
	ID string
	*Controller
	events *pubsub.PubSub[Event]
}

func (s *Session) Subscribe(ctx context.Context) pubsub.Subscription[Event] {
	return s.events.Subscribe(ctx)
}

// Sessions keeps one independent session per ID.
type Sessions struct {
	sender   Sender
	sessions map[string]*Session
	mutex    sync.Mutex
}

func NewSessions(sender Sender) *Sessions {
	return &Sessions{
		sender:   sender,
		sessions: map[string]*Session{},
	}
}

// Create starts a session with a random ID.
func (r *Sessions) Create() *Session {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	id := uuid.New().String()
	s := r.newSession(id)
	r.sessions[id] = s

	return s
}

func (r *Sessions) Get(id string) (*Session, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	s, ok := r.sessions[id]

	return s, ok
}

// Delete ends the session and discards its transcript.
func (r *Sessions) Delete(id string) bool {
	r.mutex.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mutex.Unlock()

	if ok {
		s.events.Stop()
	}

	return ok
}

// Stop ends all sessions.
func (r *Sessions) Stop() {
	r.mutex.Lock()
	sessions := r.sessions
	r.sessions = map[string]*Session{}
	r.mutex.Unlock()

	for _, s := range sessions {
		s.events.Stop()
	}
}

func (r *Sessions) newSession(id string) *Session {
	events := pubsub.New[Event]()

	return &Session{
		ID:         id,
		Controller: NewController(r.sender).WithEvents(events),
		events:     events,
	}
}
