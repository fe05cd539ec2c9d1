// Package memory is an in-process implementation of the store
// interfaces. It backs the handler tests and small single-node
// deployments that do not want postgres.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/kanishk-singh19/Wellness/internal/models"
	"github.com/kanishk-singh19/Wellness/internal/store"
)

type Store struct {
	mu       sync.RWMutex
	users    map[string]userRecord
	sessions map[string]models.Session
}

type userRecord struct {
	user models.User
	hash string
}

func NewStore() *Store {
	return &Store{
		users:    make(map[string]userRecord),
		sessions: make(map[string]models.Session),
	}
}

func (s *Store) CreateUser(ctx context.Context, user models.User, passwordHash string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.user.Email, user.Email) {
			return models.User{}, store.ErrDuplicateEmail
		}
	}
	s.users[user.ID] = userRecord{user: user, hash: passwordHash}
	return user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, record := range s.users {
		if strings.EqualFold(record.user.Email, email) {
			return record.user, record.hash, nil
		}
	}
	return models.User{}, "", store.ErrUserNotFound
}

func (s *Store) GetUserByID(ctx context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.users[id]
	if !ok {
		return models.User{}, store.ErrUserNotFound
	}
	return record.user, nil
}

func (s *Store) CreateSession(ctx context.Context, session models.Session) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = cloneSession(session)
	return session, nil
}

func (s *Store) GetSession(ctx context.Context, id string) (models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return models.Session{}, store.ErrSessionNotFound
	}
	return cloneSession(session), nil
}

func (s *Store) UpdateSession(ctx context.Context, session models.Session) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.sessions[session.ID]
	if !ok {
		return models.Session{}, store.ErrSessionNotFound
	}
	updated := cloneSession(session)
	updated.UserID = existing.UserID
	updated.CreatedAt = existing.CreatedAt
	updated.Views = existing.Views
	s.sessions[session.ID] = updated
	return cloneSession(updated), nil
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return store.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *Store) ListPublished(ctx context.Context) ([]models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []models.Session
	for _, session := range s.sessions {
		if session.Status == models.StatusPublished {
			result = append(result, cloneSession(session))
		}
	}
	sortNewestUpdatedFirst(result)
	return result, nil
}

func (s *Store) ListByOwner(ctx context.Context, userID string) ([]models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []models.Session
	for _, session := range s.sessions {
		if session.UserID == userID {
			result = append(result, cloneSession(session))
		}
	}
	sortNewestUpdatedFirst(result)
	return result, nil
}

func (s *Store) IncrementViews(ctx context.Context, id string) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return models.Session{}, store.ErrSessionNotFound
	}
	session.Views++
	s.sessions[id] = session
	return cloneSession(session), nil
}

func sortNewestUpdatedFirst(sessions []models.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
}

func cloneSession(session models.Session) models.Session {
	clone := session
	clone.Tags = append([]string(nil), session.Tags...)
	return clone
}
