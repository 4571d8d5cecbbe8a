// Package session keeps per-conversation chat histories for the agent
// layer. The store has an explicit lifecycle (construct, evict, close)
// instead of living in a package-level map.
package session

import (
	"sync"
	"time"
)

// Message is one chat turn kept in a session history
type Message struct {
	Role    string // system | user | assistant | tool
	Content string
}

type entry struct {
	messages []Message
	lastSeen time.Time
}

// Store is a session-keyed history cache with create-on-first-access
// semantics and TTL eviction
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	done     chan struct{}
}

// NewStore creates a store whose sessions expire after ttl of
// inactivity. A ttl of zero disables eviction.
func NewStore(ttl time.Duration) *Store {
	s := &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	if ttl > 0 {
		go s.evictLoop()
	}
	return s
}

func (s *Store) evictLoop() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			now := time.Now()
			for id, e := range s.sessions {
				if now.Sub(e.lastSeen) >= s.ttl {
					delete(s.sessions, id)
				}
			}
			s.mu.Unlock()
		case <-s.done:
			return
		}
	}
}

// History returns the messages of a session, creating the session on
// first access
func (s *Store) History(id string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.touch(id)
	out := make([]Message, len(e.messages))
	copy(out, e.messages)
	return out
}

// Append adds messages to a session, creating it on first access
func (s *Store) Append(id string, msgs ...Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.touch(id)
	e.messages = append(e.messages, msgs...)
}

// Evict removes one session
func (s *Store) Evict(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len reports the number of live sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close stops the eviction goroutine
func (s *Store) Close() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

// touch must be called with the lock held
func (s *Store) touch(id string) *entry {
	e, ok := s.sessions[id]
	if !ok {
		e = &entry{}
		s.sessions[id] = e
	}
	e.lastSeen = time.Now()
	return e
}
