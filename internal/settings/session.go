package settings

import (
	"context"
	"strings"

	"buddyfarm/internal/logger"
)

// Session is the settings view owned by one user session. It is created at
// session start, read by calculator callers, written with Merge and simply
// dropped at the end; durability comes from the Backend.
//
// A Session is not safe for concurrent writers; there is one writer per user session.
type Session struct {
	key     string
	backend Backend
	current Settings
}

// StorageKey builds the namespaced key a session's settings are persisted under.
func StorageKey(namespace, sessionID string) string {
	namespace = strings.TrimSpace(namespace)
	sessionID = strings.TrimSpace(sessionID)
	if namespace == "" {
		return sessionID
	}
	return namespace + ":" + sessionID
}

// Open loads the persisted settings for sessionID. Read failures and a nil
// backend degrade to an empty Settings rather than failing the caller.
func Open(ctx context.Context, backend Backend, namespace, sessionID string) *Session {
	s := &Session{
		key:     StorageKey(namespace, sessionID),
		backend: backend,
		current: Settings{},
	}
	if backend == nil {
		return s
	}
	loaded, err := backend.Load(ctx, s.key)
	if err != nil {
		logger.Warnf("settings load failed key=%s: %v", s.key, err)
		return s
	}
	if loaded != nil {
		s.current = loaded.Clone()
	}
	return s
}

// Key returns the namespaced storage key.
func (s *Session) Key() string {
	return s.key
}

// Get returns the current override mapping. Callers must not modify it.
func (s *Session) Get() Settings {
	if s == nil || s.current == nil {
		return Settings{}
	}
	return s.current
}

// Merge replaces the session's settings with current.Merge(key, value) and
// writes the result through. A failed write is logged and otherwise ignored;
// the in-session value still reflects the merge.
func (s *Session) Merge(ctx context.Context, key string, value any) Settings {
	next := s.Get().Merge(key, value)
	s.current = next
	if s.backend == nil {
		return next
	}
	if err := s.backend.Save(ctx, s.key, next); err != nil {
		logger.Warnf("settings save failed key=%s field=%s: %v", s.key, key, err)
	}
	return next
}
