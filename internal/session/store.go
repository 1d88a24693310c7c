package session

import (
	"errors"
	"fmt"
	"sync"

	"log/slog"

	"github.com/9304065865a/podolog/core/logger"
)

var (
	// ErrActive reports that the user already has a session; Begin never
	// overwrites silently — the caller asks the user to restart or keep.
	ErrActive = errors.New("session: conversation already active")
	// ErrNoSession reports input arriving for a user with no conversation.
	ErrNoSession = errors.New("session: no active conversation")
)

// Janitor releases resources a discarded session may hold, such as an
// uncommitted photo file.
type Janitor interface {
	Remove(path string) error
}

// Store keeps one active session per user. It is constructed once and passed
// to both conversations; handler goroutines access it concurrently.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	janitor  Janitor
}

// NewStore builds an empty Store. janitor may be nil.
func NewStore(janitor Janitor) *Store {
	return &Store{
		sessions: make(map[int64]*Session),
		janitor:  janitor,
	}
}

// Begin starts a conversation of the given kind at its first step.
// Returns ErrActive, leaving the existing session untouched, if one exists.
func (s *Store) Begin(userID int64, kind Kind) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[userID]; ok {
		return Session{}, ErrActive
	}
	sess := &Session{Kind: kind, Step: First(kind)}
	s.sessions[userID] = sess

	logger.Debug(logger.Background(), "service.sessions", "session.begin",
		slog.Int64("user_id", userID),
		slog.String("kind", string(kind)),
	)
	return *sess, nil
}

// Get returns a copy of the user's session, if any. Mutation goes through
// Advance so step legality stays enforced in one place.
func (s *Store) Get(userID int64) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// Active reports whether the user has a session.
func (s *Store) Active(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[userID]
	return ok
}

// Advance moves the user's session to next and applies the field mutation.
// Staying on the current step is always legal (re-prompts); any other move
// must appear in the kind's transition table.
func (s *Store) Advance(userID int64, next Step, mutate func(*Fields)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return ErrNoSession
	}
	if !allowed(sess.Kind, sess.Step, next) {
		return fmt.Errorf("session: illegal transition %s -> %s for %s", sess.Step, next, sess.Kind)
	}
	if mutate != nil {
		mutate(&sess.Fields)
	}
	prev := sess.Step
	sess.Step = next

	logger.Debug(logger.Background(), "service.sessions", "session.advance",
		slog.Int64("user_id", userID),
		slog.String("kind", string(sess.Kind)),
		slog.String("step", string(next)),
		slog.String("from", string(prev)),
	)
	return nil
}

// End discards the user's session and releases held resources: a photo saved
// during the conversation but never committed is removed from storage.
// Ending an absent session is a no-op.
func (s *Store) End(userID int64) {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	if ok {
		delete(s.sessions, userID)
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	if sess.Fields.PhotoPath != "" && s.janitor != nil {
		if err := s.janitor.Remove(sess.Fields.PhotoPath); err != nil {
			logger.Warn(logger.Background(), "service.sessions", "session.cleanup",
				slog.Int64("user_id", userID),
				slog.String("photo", sess.Fields.PhotoPath),
				slog.String("err", err.Error()),
			)
		}
	}
	logger.Debug(logger.Background(), "service.sessions", "session.end",
		slog.Int64("user_id", userID),
		slog.String("kind", string(sess.Kind)),
	)
}

// Commit discards the session without releasing resources, for flows that
// handed the photo over to durable client records.
func (s *Store) Commit(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
