package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/locvowork/hr_analytics_sample/internal/domain"
)

type savedQueryRepository struct {
	store domain.KeyValueStore
	key   string
}

func NewSavedQueryRepository(store domain.KeyValueStore, key string) domain.SavedQueryRepository {
	return &savedQueryRepository{store: store, key: key}
}

// Load returns an empty list when nothing has been saved.
func (r *savedQueryRepository) Load(ctx context.Context) ([]domain.SavedQuery, error) {
	data, err := r.store.Get(ctx, r.key)
	if errors.Is(err, domain.ErrNotFound) {
		return []domain.SavedQuery{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load saved queries: %w", err)
	}
	var queries []domain.SavedQuery
	if err := json.Unmarshal(data, &queries); err != nil {
		return nil, &domain.ParseError{Source: r.key, Err: err}
	}
	for _, q := range queries {
		if err := q.Config.Validate(); err != nil {
			return nil, &domain.ParseError{Source: r.key, Err: err}
		}
	}
	return queries, nil
}

func (r *savedQueryRepository) Save(ctx context.Context, queries []domain.SavedQuery) error {
	if queries == nil {
		queries = []domain.SavedQuery{}
	}
	data, err := marshalJSON(queries)
	if err != nil {
		return fmt.Errorf("encode saved queries: %w", err)
	}
	if err := r.store.Put(ctx, r.key, data); err != nil {
		return fmt.Errorf("save saved queries: %w", err)
	}
	return nil
}
