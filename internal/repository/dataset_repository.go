package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/locvowork/hr_analytics_sample/internal/domain"
)

type datasetRepository struct {
	store domain.KeyValueStore
	key   string
}

// NewDatasetRepository stores the whole dataset as one JSON array under key.
func NewDatasetRepository(store domain.KeyValueStore, key string) domain.DatasetRepository {
	return &datasetRepository{store: store, key: key}
}

func (r *datasetRepository) Load(ctx context.Context) ([]domain.Employee, bool, error) {
	data, err := r.store.Get(ctx, r.key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load dataset: %w", err)
	}
	records, err := DecodeEmployees(r.key, data)
	if err != nil {
		return nil, false, err
	}
	return records, true, nil
}

func (r *datasetRepository) Save(ctx context.Context, records []domain.Employee) error {
	data, err := EncodeEmployees(records)
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	if err := r.store.Put(ctx, r.key, data); err != nil {
		return fmt.Errorf("save dataset: %w", err)
	}
	return nil
}

func (r *datasetRepository) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, r.key)
}
