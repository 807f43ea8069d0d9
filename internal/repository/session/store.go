// Package session keeps per-session translation toggle state. State is
// process-local and evaporates with the session TTL; nothing is persisted.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"sync"
	"time"
)

// ToggleKey builds the slot key for one result position. Keys are namespaced
// by a digest of the cleaned query so a toggle opened for slot 2 of one
// search never carries over to slot 2 of an unrelated search.
func ToggleKey(cleanedQuery string, idx int) string {
	h := sha256.Sum256([]byte(cleanedQuery))
	return fmt.Sprintf("translate_%s_%d", hex.EncodeToString(h[:4]), idx)
}

var toggleKeyRe = regexp.MustCompile(`^translate_[0-9a-f]{8}_\d+$`)

// ValidToggleKey reports whether key has the translate_<digest>_<idx> shape.
func ValidToggleKey(key string) bool {
	return toggleKeyRe.MatchString(key)
}

type session struct {
	toggles  map[string]bool
	lastSeen time.Time
}

// Store holds translation toggle state per session ID.
// Safe for concurrent use; expired sessions are evicted lazily.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a toggle store. Sessions idle longer than ttl are dropped.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Toggle flips the slot key for the session and returns the new state.
// Unseen keys start Hidden, so the first toggle turns them on.
func (s *Store) Toggle(sessionID, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired()

	sess := s.sessions[sessionID]
	if sess == nil {
		sess = &session{toggles: make(map[string]bool)}
		s.sessions[sessionID] = sess
	}
	sess.lastSeen = s.now()
	sess.toggles[key] = !sess.toggles[key]
	return sess.toggles[key]
}

// Shown reports whether the slot key is toggled on. Default false.
func (s *Store) Shown(sessionID, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired()

	sess := s.sessions[sessionID]
	if sess == nil {
		return false
	}
	sess.lastSeen = s.now()
	return sess.toggles[key]
}

// Reset drops all toggle state for the session.
func (s *Store) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// evictExpired removes idle sessions. Caller holds s.mu.
func (s *Store) evictExpired() {
	cutoff := s.now().Add(-s.ttl)
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
		}
	}
}
