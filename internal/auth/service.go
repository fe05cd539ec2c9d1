// Package auth implements registration and credential verification on
// top of a store.UserStore. Password rules are enforced here, server
// side, regardless of what any client validates.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kanishk-singh19/Wellness/internal/models"
	"github.com/kanishk-singh19/Wellness/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
	ErrWeakPassword       = errors.New("password must be at least 8 characters with upper case, lower case, and a digit")
)

type Service struct {
	users store.UserStore
}

func NewService(users store.UserStore) *Service {
	return &Service{users: users}
}

type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Role     string
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	if !models.ValidRole(input.Role) {
		return models.User{}, ErrInvalidRole
	}
	if !strongPassword(input.Password) {
		return models.User{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:       uuid.NewString(),
		FullName: input.FullName,
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Role:     input.Role,
		Created:  time.Now().UTC(),
	}
	return s.users.CreateUser(ctx, user, string(hash))
}

// Login verifies the email/password pair. A missing user and a wrong
// password both map to ErrInvalidCredentials so responses do not leak
// which emails exist.
func (s *Service) Login(ctx context.Context, email, password string) (models.User, error) {
	user, hash, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		return models.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (models.User, error) {
	return s.users.GetUserByID(ctx, id)
}

func strongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}
