package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/lib/pq"

	"github.com/locvowork/hr_analytics_sample/internal/domain"
	"github.com/locvowork/hr_analytics_sample/internal/repository/builder"
)

const undefinedTable = "42P01"

// PostgresStore is a key-value table in Postgres with a local LRU read cache.
// Writes go through to the table and refresh the cache entry.
type PostgresStore struct {
	db        *sql.DB
	tableName string

	mu    sync.Mutex
	cache *simplelru.LRU
}

func NewPostgresStore(db *sql.DB, tableName string, cacheSize int) (*PostgresStore, error) {
	if db == nil {
		return nil, &domain.ValidationError{Field: "db", Message: "db must be non-nil"}
	}
	if tableName == "" {
		return nil, &domain.ValidationError{Field: "tableName", Message: "table name must be non-empty"}
	}
	if cacheSize <= 0 {
		cacheSize = 16
	}
	cache, err := simplelru.NewLRU(cacheSize, nil)
	if err != nil {
		return nil, err
	}
	return &PostgresStore{db: db, tableName: tableName, cache: cache}, nil
}

// CreateTable creates the backing table if it does not exist yet.
func (s *PostgresStore) CreateTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (key TEXT PRIMARY KEY, value BYTEA NOT NULL, updated_at TIMESTAMPTZ NOT NULL)",
		s.tableName))
	if err != nil {
		return fmt.Errorf("create table %s: %w", s.tableName, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := s.cached(key); ok {
		return v, nil
	}

	query, args := builder.NewSQLBuilder().
		Select("value").
		From(s.tableName).
		Where("key = ?", key).
		Build()

	var value []byte
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) || isUndefinedTable(err) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}

	s.remember(key, value)
	return append([]byte(nil), value...), nil
}

// Put upserts the value. The table is created on first use.
func (s *PostgresStore) Put(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	err := s.put(ctx, key, value)
	if isUndefinedTable(err) {
		if err := s.CreateTable(ctx); err != nil {
			return err
		}
		err = s.put(ctx, key, value)
	}
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	s.remember(key, value)
	return nil
}

func (s *PostgresStore) put(ctx context.Context, key string, value []byte) error {
	query, args, err := builder.NewSQLBuilder().
		Insert(s.tableName, "key", "value", "updated_at").
		Values(key, value, time.Now().UTC()).
		OnConflict("key").
		DoUpdate("value", "updated_at").
		BuildSafe()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	s.cache.Remove(key)
	s.mu.Unlock()

	query, args := builder.NewSQLBuilder().
		Delete(s.tableName).
		Where("key = ?", key).
		Build()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil && !isUndefinedTable(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) cached(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v.([]byte)...), true
}

func (s *PostgresStore) remember(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Add(key, append([]byte(nil), value...))
}

func isUndefinedTable(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == undefinedTable
}
