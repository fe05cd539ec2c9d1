package sessioncache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kanishk-singh19/Wellness/internal/models"
)

var t0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func fixedFetcher(sessions []models.Session) Fetcher {
	return func(context.Context) ([]models.Session, error) {
		return sessions, nil
	}
}

func seed(t *testing.T, sessions []models.Session) *Cache {
	t.Helper()
	c := New()
	if err := c.Refresh(context.Background(), fixedFetcher(sessions)); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	return c
}

func titles(sessions []models.Session) []string {
	var out []string
	for _, s := range sessions {
		out = append(out, s.Title)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRefreshPropagatesFetchError(t *testing.T) {
	c := New()
	fetchErr := errors.New("boom")
	err := c.Refresh(context.Background(), func(context.Context) ([]models.Session, error) {
		return nil, fetchErr
	})
	if !errors.Is(err, fetchErr) {
		t.Fatalf("expected fetch error, got %v", err)
	}
}

func TestFilterAndSortScenario(t *testing.T) {
	c := seed(t, []models.Session{
		{ID: "1", Title: "Morning Yoga", UpdatedAt: t0},
		{ID: "2", Title: "Evening Calm", UpdatedAt: t0.Add(time.Hour)},
	})

	sorted := c.Sort(SortRecent)
	if got := titles(sorted); !equal(got, []string{"Evening Calm", "Morning Yoga"}) {
		t.Fatalf("recent sort: got %v", got)
	}

	filtered := c.Filter("yoga", "")
	if got := titles(filtered); !equal(got, []string{"Morning Yoga"}) {
		t.Fatalf("substring filter: got %v", got)
	}
}

func TestFilterMatchesTagsAndStatus(t *testing.T) {
	c := seed(t, []models.Session{
		{ID: "1", Title: "Stretch", Tags: []string{"Yoga", "beginner"}, Status: models.StatusPublished},
		{ID: "2", Title: "Breathing", Tags: []string{"calm"}, Status: models.StatusDraft},
		{ID: "3", Title: "Yoga Flow", Status: models.StatusDraft},
	})

	if got := titles(c.Filter("yoga", "")); !equal(got, []string{"Stretch", "Yoga Flow"}) {
		t.Fatalf("tag match: got %v", got)
	}
	if got := titles(c.Filter("yoga", models.StatusDraft)); !equal(got, []string{"Yoga Flow"}) {
		t.Fatalf("status narrow: got %v", got)
	}
	if got := titles(c.Filter("", models.StatusPublished)); !equal(got, []string{"Stretch"}) {
		t.Fatalf("status only: got %v", got)
	}
}

func TestSortKeys(t *testing.T) {
	c := seed(t, []models.Session{
		{ID: "1", Title: "B", Views: 5, CreatedAt: t0, UpdatedAt: t0.Add(2 * time.Hour)},
		{ID: "2", Title: "A", Views: 9, CreatedAt: t0.Add(time.Hour), UpdatedAt: t0},
		{ID: "3", Title: "C", Views: 1, CreatedAt: t0.Add(2 * time.Hour), UpdatedAt: t0.Add(time.Hour)},
	})

	if got := titles(c.Sort(SortCreated)); !equal(got, []string{"C", "A", "B"}) {
		t.Fatalf("created sort: got %v", got)
	}
	if got := titles(c.Sort(SortTitle)); !equal(got, []string{"A", "B", "C"}) {
		t.Fatalf("title sort: got %v", got)
	}
	if got := titles(c.Sort(SortViews)); !equal(got, []string{"A", "B", "C"}) {
		t.Fatalf("views sort: got %v", got)
	}
}

func TestSortStableOnTies(t *testing.T) {
	c := seed(t, []models.Session{
		{ID: "1", Title: "First", Views: 3},
		{ID: "2", Title: "Second", Views: 3},
		{ID: "3", Title: "Third", Views: 3},
	})

	// All tie on views; fetch order must survive.
	if got := titles(c.Sort(SortViews)); !equal(got, []string{"First", "Second", "Third"}) {
		t.Fatalf("tie order: got %v", got)
	}
}

func TestOptimisticUpsertAndRollback(t *testing.T) {
	c := seed(t, []models.Session{
		{ID: "1", Title: "Original"},
	})

	c.ApplyUpsert(models.Session{ID: "1", Title: "Edited"})
	if got := titles(c.Filter("", "")); !equal(got, []string{"Edited"}) {
		t.Fatalf("after upsert: got %v", got)
	}

	c.Rollback()
	if got := titles(c.Filter("", "")); !equal(got, []string{"Original"}) {
		t.Fatalf("after rollback: got %v", got)
	}
}

func TestOptimisticAppendAndRemove(t *testing.T) {
	c := seed(t, []models.Session{
		{ID: "1", Title: "Keep"},
	})

	c.ApplyUpsert(models.Session{ID: "2", Title: "New"})
	c.Commit()
	if c.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", c.Len())
	}

	c.ApplyRemove("1")
	if got := titles(c.Filter("", "")); !equal(got, []string{"New"}) {
		t.Fatalf("after remove: got %v", got)
	}

	c.Rollback()
	if c.Len() != 2 {
		t.Fatalf("rollback after remove: expected 2 items, got %d", c.Len())
	}
}

func TestRollbackWithoutPendingIsNoOp(t *testing.T) {
	c := seed(t, []models.Session{{ID: "1", Title: "Only"}})
	c.Rollback()
	if c.Len() != 1 {
		t.Fatalf("expected 1 item, got %d", c.Len())
	}
}
