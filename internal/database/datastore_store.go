package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/datastore"

	"github.com/locvowork/hr_analytics_sample/internal/domain"
)

// Datastore caps an entity at about 1MiB, so values are split into chunk
// entities under a header entity that records the chunk count.
const (
	defaultChunkSize = 900 * 1024
	maxBatchKeys     = 500
)

type kvHeader struct {
	Chunks    int
	Size      int
	UpdatedAt time.Time
}

type kvChunk struct {
	Data []byte `datastore:",noindex"`
}

// DatastoreStore is a KeyValueStore on Google Cloud Datastore.
type DatastoreStore struct {
	client    *datastore.Client
	kind      string
	chunkSize int
}

// NewDatastoreStore wraps an existing client. kind names the header entity
// kind; chunks are stored under kind+"Chunk".
func NewDatastoreStore(client *datastore.Client, kind string) *DatastoreStore {
	if kind == "" {
		kind = "HRAnalyticsKV"
	}
	return &DatastoreStore{client: client, kind: kind, chunkSize: defaultChunkSize}
}

func (s *DatastoreStore) headerKey(key string) *datastore.Key {
	return datastore.NameKey(s.kind, key, nil)
}

func (s *DatastoreStore) chunkKeys(parent *datastore.Key, n int) []*datastore.Key {
	keys := make([]*datastore.Key, n)
	for i := range keys {
		keys[i] = datastore.NameKey(s.kind+"Chunk", fmt.Sprintf("%06d", i), parent)
	}
	return keys
}

func (s *DatastoreStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("datastore client is nil")
	}

	hk := s.headerKey(key)
	var header kvHeader
	if err := s.client.Get(ctx, hk, &header); err != nil {
		if errors.Is(err, datastore.ErrNoSuchEntity) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get header %s: %w", key, err)
	}

	chunks := make([][]byte, 0, header.Chunks)
	keys := s.chunkKeys(hk, header.Chunks)
	for _, batch := range batchKeys(keys, maxBatchKeys) {
		dst := make([]kvChunk, len(batch))
		if err := s.client.GetMulti(ctx, batch, dst); err != nil {
			return nil, &domain.ParseError{Source: key, Err: fmt.Errorf("read chunks: %w", err)}
		}
		for _, c := range dst {
			chunks = append(chunks, c.Data)
		}
	}

	data := joinChunks(chunks)
	if len(data) != header.Size {
		return nil, &domain.ParseError{Source: key, Err: fmt.Errorf("size mismatch: header %d, chunks %d", header.Size, len(data))}
	}
	return data, nil
}

// Put writes the chunks first and the header last, then drops chunks left
// over from a longer previous value.
func (s *DatastoreStore) Put(ctx context.Context, key string, value []byte) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("datastore client is nil")
	}

	hk := s.headerKey(key)
	var previous kvHeader
	if err := s.client.Get(ctx, hk, &previous); err != nil && !errors.Is(err, datastore.ErrNoSuchEntity) {
		return fmt.Errorf("get header %s: %w", key, err)
	}

	parts := splitChunks(value, s.chunkSize)
	keys := s.chunkKeys(hk, len(parts))
	for start := 0; start < len(keys); start += maxBatchKeys {
		end := min(start+maxBatchKeys, len(keys))
		src := make([]kvChunk, 0, end-start)
		for _, p := range parts[start:end] {
			src = append(src, kvChunk{Data: p})
		}
		if _, err := s.client.PutMulti(ctx, keys[start:end], src); err != nil {
			return fmt.Errorf("put chunks %s: %w", key, err)
		}
	}

	header := kvHeader{Chunks: len(parts), Size: len(value), UpdatedAt: time.Now().UTC()}
	if _, err := s.client.Put(ctx, hk, &header); err != nil {
		return fmt.Errorf("put header %s: %w", key, err)
	}

	if previous.Chunks > len(parts) {
		stale := s.chunkKeys(hk, previous.Chunks)[len(parts):]
		for _, batch := range batchKeys(stale, maxBatchKeys) {
			if err := s.client.DeleteMulti(ctx, batch); err != nil {
				return fmt.Errorf("delete stale chunks %s: %w", key, err)
			}
		}
	}
	return nil
}

func (s *DatastoreStore) Delete(ctx context.Context, key string) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("datastore client is nil")
	}

	hk := s.headerKey(key)
	var header kvHeader
	if err := s.client.Get(ctx, hk, &header); err != nil {
		if errors.Is(err, datastore.ErrNoSuchEntity) {
			return nil
		}
		return fmt.Errorf("get header %s: %w", key, err)
	}

	keys := append(s.chunkKeys(hk, header.Chunks), hk)
	for _, batch := range batchKeys(keys, maxBatchKeys) {
		if err := s.client.DeleteMulti(ctx, batch); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return nil
}

func (s *DatastoreStore) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

// splitChunks cuts data into pieces of at most size bytes. Empty data still
// yields one empty chunk so the header always points at something.
func splitChunks(data []byte, size int) [][]byte {
	if size <= 0 {
		size = defaultChunkSize
	}
	if len(data) == 0 {
		return [][]byte{{}}
	}
	out := make([][]byte, 0, (len(data)+size-1)/size)
	for start := 0; start < len(data); start += size {
		end := min(start+size, len(data))
		out = append(out, data[start:end])
	}
	return out
}

func joinChunks(chunks [][]byte) []byte {
	n := 0
	for _, c := range chunks {
		n += len(c)
	}
	out := make([]byte, 0, n)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

func batchKeys(keys []*datastore.Key, size int) [][]*datastore.Key {
	var out [][]*datastore.Key
	for start := 0; start < len(keys); start += size {
		out = append(out, keys[start:min(start+size, len(keys))])
	}
	return out
}
