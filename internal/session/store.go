package session

import (
	"encoding/json"
	"fmt"

	"github.com/yasmin191/hackathon-todo-evolution/internal/models"
)

const sessionKey = "todo_auth_session"

// TokenSetter is the slice of the API client the store needs to keep the
// bearer token in sync with the persisted session.
type TokenSetter interface {
	SetToken(token string)
}

// Store owns the persisted auth session. Absence of a record means logged
// out; an unparsable record is treated the same way.
type Store struct {
	storage Storage
	api     TokenSetter
}

func NewStore(storage Storage, api TokenSetter) *Store {
	return &Store{storage: storage, api: api}
}

// Current returns the persisted session, or nil when logged out. Reading also
// pushes the token into the API client so "always use latest token" holds.
func (s *Store) Current() *models.AuthSession {
	raw, ok := s.storage.Get(sessionKey)
	if !ok {
		return nil
	}
	var sess models.AuthSession
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil
	}
	s.api.SetToken(sess.Token)
	return &sess
}

func (s *Store) Save(sess models.AuthSession) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.storage.Set(sessionKey, string(raw)); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.api.SetToken(sess.Token)
	return nil
}

// Clear destroys the session wholesale: on logout and on authentication
// failure from the backend.
func (s *Store) Clear() {
	s.storage.Remove(sessionKey)
	s.api.SetToken("")
}

func (s *Store) IsAuthenticated() bool {
	return s.Current() != nil
}

func (s *Store) CurrentUser() *models.User {
	sess := s.Current()
	if sess == nil {
		return nil
	}
	return &sess.User
}
