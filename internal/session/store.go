// Package session holds completed analyses for follow-up interaction. Each
// session owns exactly one feasibility record and an append-only chat
// transcript; nothing is shared between sessions. A new analysis for the same
// user gets a new session, replacing the old one by expiry.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	gocache "github.com/patrickmn/go-cache"

	"github.com/couchcryptid/parcel-feasibility/internal/domain"
	"github.com/couchcryptid/parcel-feasibility/internal/observability"
)

// ErrNotFound means the session expired or never existed.
var ErrNotFound = errors.New("session not found")

// Session is one user's completed analysis plus its chat transcript.
type Session struct {
	ID        string                    `json:"id"`
	Record    *domain.FeasibilityRecord `json:"record"`
	Chat      []domain.ChatExchange     `json:"chat"`
	CreatedAt time.Time                 `json:"created_at"`
}

// Store is a TTL-bounded session store. Sessions expire after the configured
// idle time; expiry is observable through the active-sessions gauge.
type Store struct {
	cache   *gocache.Cache
	clock   clockwork.Clock
	metrics *observability.Metrics
	mu      sync.Mutex // guards all access to cached sessions and their transcripts
}

// NewStore creates a session store with the given TTL. Pass a nil clock to
// use real time.
func NewStore(ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	c := gocache.New(ttl, ttl)
	c.OnEvicted(func(string, interface{}) {
		metrics.SessionsActive.Dec()
	})
	return &Store{
		cache:   c,
		clock:   clock,
		metrics: metrics,
	}
}

// Create registers a new session around a completed record and returns a
// snapshot of it.
func (s *Store) Create(record *domain.FeasibilityRecord) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{
		ID:        uuid.NewString(),
		Record:    record,
		CreatedAt: s.clock.Now().UTC(),
	}
	s.cache.SetDefault(sess.ID, sess)
	s.metrics.SessionsActive.Inc()
	return sess.snapshot()
}

// Get returns a snapshot of the session by id, refreshing its TTL. The
// snapshot owns its transcript slice, so concurrent appends on the same
// session never alias it. The record pointer is shared but read-only after
// assembly.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.live(id)
	if err != nil {
		return nil, err
	}
	return sess.snapshot(), nil
}

// AppendChat appends one question/answer exchange to the session transcript
// and returns a copy of the updated transcript.
func (s *Store) AppendChat(id, question, answer string) ([]domain.ChatExchange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.live(id)
	if err != nil {
		return nil, err
	}

	sess.Chat = append(sess.Chat, domain.ChatExchange{
		Question: question,
		Answer:   answer,
		AskedAt:  s.clock.Now().UTC(),
	})
	s.metrics.ChatMessages.Inc()
	return append([]domain.ChatExchange(nil), sess.Chat...), nil
}

// live returns the cached session itself, refreshing its TTL. Callers must
// hold s.mu.
func (s *Store) live(id string) (*Session, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	sess := v.(*Session)
	s.cache.SetDefault(id, sess)
	return sess, nil
}

// snapshot copies the session with its own transcript slice.
func (sess *Session) snapshot() *Session {
	cp := *sess
	cp.Chat = append([]domain.ChatExchange(nil), sess.Chat...)
	return &cp
}
