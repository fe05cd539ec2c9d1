// Package sessions implements the wellness-session lifecycle. Every
// mutating operation enforces the single authorization rule of the
// system: only the owner recorded on a session may change it.
package sessions

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kanishk-singh19/Wellness/internal/models"
	"github.com/kanishk-singh19/Wellness/internal/store"
)

var (
	ErrNotOwner      = errors.New("caller does not own this session")
	ErrMissingFields = errors.New("title and json_file_url are required")
	ErrInvalidStatus = errors.New("status must be draft or published")
)

type Service struct {
	sessions store.SessionStore
}

func NewService(sessions store.SessionStore) *Service {
	return &Service{sessions: sessions}
}

type SaveInput struct {
	ID          string
	Title       string
	Tags        []string
	JSONFileURL string
	Status      string
	CallerID    string
}

func (s *Service) ListPublished(ctx context.Context) ([]models.Session, error) {
	return s.sessions.ListPublished(ctx)
}

func (s *Service) ListOwned(ctx context.Context, callerID, ownerID string) ([]models.Session, error) {
	if callerID != ownerID {
		return nil, ErrNotOwner
	}
	return s.sessions.ListByOwner(ctx, ownerID)
}

// Save is an upsert keyed on the optional session id: absent id creates
// a session owned by the caller, a present id overwrites the existing
// record after the ownership check.
func (s *Service) Save(ctx context.Context, input SaveInput) (models.Session, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.JSONFileURL = strings.TrimSpace(input.JSONFileURL)
	if input.Title == "" || input.JSONFileURL == "" {
		return models.Session{}, ErrMissingFields
	}
	if input.Status == "" {
		input.Status = models.StatusDraft
	}
	if !models.ValidStatus(input.Status) {
		return models.Session{}, ErrInvalidStatus
	}
	if input.Tags == nil {
		input.Tags = []string{}
	}

	now := time.Now().UTC()
	if input.ID == "" {
		return s.sessions.CreateSession(ctx, models.Session{
			ID:          uuid.NewString(),
			Title:       input.Title,
			Tags:        input.Tags,
			JSONFileURL: input.JSONFileURL,
			Status:      input.Status,
			UserID:      input.CallerID,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	existing, err := s.sessions.GetSession(ctx, input.ID)
	if err != nil {
		return models.Session{}, err
	}
	if existing.UserID != input.CallerID {
		return models.Session{}, ErrNotOwner
	}
	existing.Title = input.Title
	existing.Tags = input.Tags
	existing.JSONFileURL = input.JSONFileURL
	existing.Status = input.Status
	existing.UpdatedAt = now
	return s.sessions.UpdateSession(ctx, existing)
}

// Publish is idempotent: republishing a published session changes
// nothing but the updated_at timestamp.
func (s *Service) Publish(ctx context.Context, id, callerID string) (models.Session, error) {
	return s.setStatus(ctx, id, callerID, models.StatusPublished)
}

func (s *Service) Unpublish(ctx context.Context, id, callerID string) (models.Session, error) {
	return s.setStatus(ctx, id, callerID, models.StatusDraft)
}

func (s *Service) setStatus(ctx context.Context, id, callerID, status string) (models.Session, error) {
	session, err := s.sessions.GetSession(ctx, id)
	if err != nil {
		return models.Session{}, err
	}
	if session.UserID != callerID {
		return models.Session{}, ErrNotOwner
	}
	session.Status = status
	session.UpdatedAt = time.Now().UTC()
	return s.sessions.UpdateSession(ctx, session)
}

// Delete hard-deletes. Deleting an id that is already gone reports
// store.ErrSessionNotFound; callers treat that as "already deleted".
func (s *Service) Delete(ctx context.Context, id, callerID string) error {
	session, err := s.sessions.GetSession(ctx, id)
	if err != nil {
		return err
	}
	if session.UserID != callerID {
		return ErrNotOwner
	}
	return s.sessions.DeleteSession(ctx, id)
}

// Get serves the detail view. Published sessions are public and count a
// view; drafts are visible to their owner only.
func (s *Service) Get(ctx context.Context, id, callerID string) (models.Session, error) {
	session, err := s.sessions.GetSession(ctx, id)
	if err != nil {
		return models.Session{}, err
	}
	if session.Status == models.StatusPublished {
		return s.sessions.IncrementViews(ctx, id)
	}
	if session.UserID != callerID {
		return models.Session{}, ErrNotOwner
	}
	return session, nil
}
