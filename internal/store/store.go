// Package store declares the persistence interfaces for users and
// wellness sessions. Two implementations exist, postgres and memory;
// ownership and validation rules live above them in the service layer
// so they are written exactly once.
package store

import (
	"context"

	"github.com/kanishk-singh19/Wellness/internal/models"
)

type UserStore interface {
	// CreateUser persists a new user. Returns ErrDuplicateEmail when the
	// email is already taken (case-insensitive).
	CreateUser(ctx context.Context, user models.User, passwordHash string) (models.User, error)
	// GetUserByEmail looks a user up case-insensitively and returns the
	// stored password hash alongside the record.
	GetUserByEmail(ctx context.Context, email string) (models.User, string, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
}

type SessionStore interface {
	CreateSession(ctx context.Context, session models.Session) (models.Session, error)
	GetSession(ctx context.Context, id string) (models.Session, error)
	// UpdateSession overwrites the mutable fields of an existing record.
	// Owner and created_at never change after creation.
	UpdateSession(ctx context.Context, session models.Session) (models.Session, error)
	DeleteSession(ctx context.Context, id string) error
	// ListPublished returns published sessions, newest updated first.
	ListPublished(ctx context.Context) ([]models.Session, error)
	// ListByOwner returns every session of one owner, newest updated first.
	ListByOwner(ctx context.Context, userID string) ([]models.Session, error)
	IncrementViews(ctx context.Context, id string) (models.Session, error)
}
