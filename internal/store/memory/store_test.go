package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kanishk-singh19/Wellness/internal/models"
	"github.com/kanishk-singh19/Wellness/internal/store"
)

func TestEmailLookupCaseInsensitive(t *testing.T) {
	st := NewStore()
	ctx := context.Background()

	if _, err := st.CreateUser(ctx, models.User{ID: "u1", Email: "Anna@Example.com"}, "hash"); err != nil {
		t.Fatalf("create: %v", err)
	}

	user, hash, err := st.GetUserByEmail(ctx, "anna@example.COM")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if user.ID != "u1" || hash != "hash" {
		t.Fatalf("mismatch: %+v %q", user, hash)
	}
}

func TestUpdatePreservesOwnerAndCreatedAt(t *testing.T) {
	st := NewStore()
	ctx := context.Background()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, err := st.CreateSession(ctx, models.Session{
		ID: "s1", Title: "T", JSONFileURL: "http://x/y.json",
		Status: models.StatusDraft, UserID: "owner-1", CreatedAt: created, UpdatedAt: created,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// An update that tries to change immutable fields must not stick.
	updated, err := st.UpdateSession(ctx, models.Session{
		ID: "s1", Title: "T2", JSONFileURL: "http://x/y.json",
		Status: models.StatusDraft, UserID: "intruder", CreatedAt: created.Add(time.Hour), UpdatedAt: created.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.UserID != "owner-1" {
		t.Fatalf("owner changed: %q", updated.UserID)
	}
	if !updated.CreatedAt.Equal(created) {
		t.Fatalf("created_at changed: %v", updated.CreatedAt)
	}
}

func TestListsAreCopies(t *testing.T) {
	st := NewStore()
	ctx := context.Background()

	if _, err := st.CreateSession(ctx, models.Session{
		ID: "s1", Title: "T", Tags: []string{"calm"}, JSONFileURL: "http://x/y.json",
		Status: models.StatusPublished, UserID: "owner-1",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	listed, err := st.ListPublished(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	listed[0].Tags[0] = "mutated"

	again, err := st.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.Tags[0] != "calm" {
		t.Fatalf("stored record aliased by caller slice: %v", again.Tags)
	}
}

func TestDeleteMissing(t *testing.T) {
	st := NewStore()
	if err := st.DeleteSession(context.Background(), "missing"); !errors.Is(err, store.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
