package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kanishk-singh19/Wellness/internal/models"
	"github.com/kanishk-singh19/Wellness/internal/store"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const uniqueViolation = "23505"

func (s *Store) CreateUser(ctx context.Context, user models.User, passwordHash string) (models.User, error) {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (user_id, full_name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID, user.FullName, user.Email, passwordHash, user.Role, user.Created)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.User{}, store.ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, string, error) {
	var user models.User
	var passwordHash string
	row := s.pool.QueryRow(ctx, `
		SELECT user_id, full_name, email, password_hash, role, created_at
		FROM users
		WHERE lower(email) = lower($1)
	`, email)
	if err := row.Scan(&user.ID, &user.FullName, &user.Email, &passwordHash, &user.Role, &user.Created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, "", store.ErrUserNotFound
		}
		return models.User{}, "", err
	}
	return user, passwordHash, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	row := s.pool.QueryRow(ctx, `
		SELECT user_id, full_name, email, role, created_at
		FROM users
		WHERE user_id = $1
	`, id)
	if err := row.Scan(&user.ID, &user.FullName, &user.Email, &user.Role, &user.Created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, store.ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *Store) CreateSession(ctx context.Context, session models.Session) (models.Session, error) {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sessions (session_id, title, tags, json_file_url, status, user_id, views, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, session.ID, session.Title, session.Tags, session.JSONFileURL, session.Status, session.UserID, session.Views, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return models.Session{}, err
	}
	return session, nil
}

func (s *Store) GetSession(ctx context.Context, id string) (models.Session, error) {
	return s.scanSession(s.pool.QueryRow(ctx, `
		SELECT session_id, title, tags, json_file_url, status, user_id, views, created_at, updated_at
		FROM sessions
		WHERE session_id = $1
	`, id))
}

func (s *Store) UpdateSession(ctx context.Context, session models.Session) (models.Session, error) {
	return s.scanSession(s.pool.QueryRow(ctx, `
		UPDATE sessions
		SET title = $2, tags = $3, json_file_url = $4, status = $5, updated_at = $6
		WHERE session_id = $1
		RETURNING session_id, title, tags, json_file_url, status, user_id, views, created_at, updated_at
	`, session.ID, session.Title, session.Tags, session.JSONFileURL, session.Status, session.UpdatedAt))
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE session_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrSessionNotFound
	}
	return nil
}

func (s *Store) ListPublished(ctx context.Context) ([]models.Session, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT session_id, title, tags, json_file_url, status, user_id, views, created_at, updated_at
		FROM sessions
		WHERE status = 'published'
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return collectSessions(rows)
}

func (s *Store) ListByOwner(ctx context.Context, userID string) ([]models.Session, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT session_id, title, tags, json_file_url, status, user_id, views, created_at, updated_at
		FROM sessions
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return collectSessions(rows)
}

func (s *Store) IncrementViews(ctx context.Context, id string) (models.Session, error) {
	return s.scanSession(s.pool.QueryRow(ctx, `
		UPDATE sessions
		SET views = views + 1
		WHERE session_id = $1
		RETURNING session_id, title, tags, json_file_url, status, user_id, views, created_at, updated_at
	`, id))
}

func (s *Store) scanSession(row pgx.Row) (models.Session, error) {
	var session models.Session
	err := row.Scan(&session.ID, &session.Title, &session.Tags, &session.JSONFileURL, &session.Status, &session.UserID, &session.Views, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Session{}, store.ErrSessionNotFound
		}
		return models.Session{}, err
	}
	return session, nil
}

func collectSessions(rows pgx.Rows) ([]models.Session, error) {
	defer rows.Close()
	var sessions []models.Session
	for rows.Next() {
		var session models.Session
		if err := rows.Scan(&session.ID, &session.Title, &session.Tags, &session.JSONFileURL, &session.Status, &session.UserID, &session.Views, &session.CreatedAt, &session.UpdatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
