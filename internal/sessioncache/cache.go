// Package sessioncache holds the last-fetched set of sessions for the
// current view and derives filtered and sorted projections locally,
// without going back to the server. Mutations are applied
// optimistically; a snapshot allows rolling back when the server
// rejects one.
package sessioncache

import (
	"context"
	"sort"
	"strings"

	"github.com/kanishk-singh19/Wellness/internal/models"
)

type SortKey string

const (
	SortRecent  SortKey = "recent"  // updated_at, newest first
	SortCreated SortKey = "created" // created_at, newest first
	SortTitle   SortKey = "title"   // lexicographic
	SortViews   SortKey = "views"   // most viewed first
)

// Fetcher loads the full session set for a scope (published feed or
// one user's dashboard).
type Fetcher func(ctx context.Context) ([]models.Session, error)

type Cache struct {
	items    []models.Session
	snapshot []models.Session
}

func New() *Cache {
	return &Cache{}
}

// Refresh replaces the entire cached set with a fresh full fetch and
// clears any pending rollback snapshot.
func (c *Cache) Refresh(ctx context.Context, fetch Fetcher) error {
	items, err := fetch(ctx)
	if err != nil {
		return err
	}
	c.items = items
	c.snapshot = nil
	return nil
}

func (c *Cache) Len() int {
	return len(c.items)
}

// Filter returns sessions whose title or any tag contains the query,
// case-insensitively, optionally narrowed to one status. An empty
// query matches everything.
func (c *Cache) Filter(query, status string) []models.Session {
	query = strings.ToLower(strings.TrimSpace(query))
	var result []models.Session
	for _, session := range c.items {
		if status != "" && session.Status != status {
			continue
		}
		if query != "" && !matchesQuery(session, query) {
			continue
		}
		result = append(result, session)
	}
	return result
}

// Sort returns a sorted copy of the cached set. The sort is stable:
// ties keep the original fetch order.
func (c *Cache) Sort(key SortKey) []models.Session {
	return Sort(c.items, key)
}

// Sort returns a stably sorted copy of any session list.
func Sort(sessions []models.Session, key SortKey) []models.Session {
	result := append([]models.Session(nil), sessions...)
	switch key {
	case SortCreated:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		})
	case SortTitle:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Title < result[j].Title
		})
	case SortViews:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Views > result[j].Views
		})
	default:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].UpdatedAt.After(result[j].UpdatedAt)
		})
	}
	return result
}

// ApplyUpsert optimistically replaces the matching entry, or appends
// when the session is new. The pre-mutation state is kept for Rollback.
func (c *Cache) ApplyUpsert(session models.Session) {
	c.takeSnapshot()
	for i := range c.items {
		if c.items[i].ID == session.ID {
			c.items[i] = session
			return
		}
	}
	c.items = append(c.items, session)
}

// ApplyRemove optimistically drops the entry with the given id.
func (c *Cache) ApplyRemove(id string) {
	c.takeSnapshot()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Rollback restores the state captured by the most recent Apply call.
// It is a no-op when nothing is pending.
func (c *Cache) Rollback() {
	if c.snapshot == nil {
		return
	}
	c.items = c.snapshot
	c.snapshot = nil
}

// Commit discards the pending snapshot once the server has accepted
// the mutation.
func (c *Cache) Commit() {
	c.snapshot = nil
}

func (c *Cache) takeSnapshot() {
	c.snapshot = append([]models.Session(nil), c.items...)
}

func matchesQuery(session models.Session, query string) bool {
	if strings.Contains(strings.ToLower(session.Title), query) {
		return true
	}
	for _, tag := range session.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}
