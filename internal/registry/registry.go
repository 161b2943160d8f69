// Package registry keeps the ordered list of saved queries.
package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/locvowork/hr_analytics_sample/internal/domain"
)

// Registry is an append-only list of named query configurations. Stored
// configurations are copied on the way in and on the way out.
type Registry struct {
	mu      sync.RWMutex
	queries []domain.SavedQuery
	lastID  int64
	now     func() time.Time
}

// New creates an empty registry. A nil clock means time.Now.
func New(now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{now: now}
}

// Save appends a new entry. The id is the creation time in Unix
// milliseconds, bumped past the previous id when two saves share a
// millisecond.
func (r *Registry) Save(name string, cfg domain.QueryConfig) (domain.SavedQuery, error) {
	if err := cfg.Validate(); err != nil {
		return domain.SavedQuery{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.now().UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id

	q := domain.SavedQuery{ID: id, Name: name, Config: cfg.Clone()}
	r.queries = append(r.queries, q)
	return clone(q), nil
}

// List returns every saved query in insertion order.
func (r *Registry) List() []domain.SavedQuery {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.SavedQuery, len(r.queries))
	for i, q := range r.queries {
		out[i] = clone(q)
	}
	return out
}

// Load returns a copy of the configuration saved under id.
func (r *Registry) Load(id int64) (domain.QueryConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, q := range r.queries {
		if q.ID == id {
			return q.Config.Clone(), nil
		}
	}
	return domain.QueryConfig{}, fmt.Errorf("saved query %d: %w", id, domain.ErrNotFound)
}

// Len reports how many queries are saved.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.queries)
}

// Restore replaces the list wholesale, typically with a persisted snapshot.
func (r *Registry) Restore(queries []domain.SavedQuery) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.queries = make([]domain.SavedQuery, len(queries))
	r.lastID = 0
	for i, q := range queries {
		r.queries[i] = clone(q)
		if q.ID > r.lastID {
			r.lastID = q.ID
		}
	}
}

func clone(q domain.SavedQuery) domain.SavedQuery {
	q.Config = q.Config.Clone()
	return q
}
