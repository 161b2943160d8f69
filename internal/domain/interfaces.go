package domain

import "context"

// KeyValueStore persists opaque values under string keys.
type KeyValueStore interface {
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put overwrites any previous value.
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// DatasetRepository persists the whole employee set under a single key.
type DatasetRepository interface {
	// Load reports found=false when nothing has been saved yet.
	Load(ctx context.Context) (records []Employee, found bool, err error)
	Save(ctx context.Context, records []Employee) error
	Clear(ctx context.Context) error
}

// SavedQueryRepository persists the saved query list.
type SavedQueryRepository interface {
	Load(ctx context.Context) ([]SavedQuery, error)
	Save(ctx context.Context, queries []SavedQuery) error
}

// EmployeeIndexer mirrors the active dataset into a search index.
type EmployeeIndexer interface {
	IndexEmployees(ctx context.Context, records []Employee) error
}
