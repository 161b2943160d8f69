package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/locvowork/hr_analytics_sample/internal/domain"
	"github.com/locvowork/hr_analytics_sample/internal/generator"
	"github.com/locvowork/hr_analytics_sample/internal/logger"
	"github.com/locvowork/hr_analytics_sample/internal/repository"
)

const (
	DefaultGenerateCount = 1000
	DefaultSeedCount     = 5000
)

// DatasetService owns the active record set. Every change replaces the set
// wholesale; a failed operation leaves the previous set in place.
type DatasetService struct {
	mu      sync.RWMutex
	records []domain.Employee

	genMu     sync.Mutex
	generator *generator.Generator

	repo    domain.DatasetRepository
	indexer domain.EmployeeIndexer

	indexMu  sync.Mutex
	indexWG  sync.WaitGroup
	indexSeq atomic.Int64

	generateCount int
	seedCount     int
}

// DatasetOption customises a DatasetService.
type DatasetOption func(*DatasetService)

// WithIndexer mirrors every replacement of the active set into idx.
func WithIndexer(idx domain.EmployeeIndexer) DatasetOption {
	return func(s *DatasetService) {
		s.indexer = idx
	}
}

// WithDefaultCounts overrides the counts used when a caller passes 0.
func WithDefaultCounts(generate, seed int) DatasetOption {
	return func(s *DatasetService) {
		if generate > 0 {
			s.generateCount = generate
		}
		if seed > 0 {
			s.seedCount = seed
		}
	}
}

func NewDatasetService(repo domain.DatasetRepository, gen *generator.Generator, opts ...DatasetOption) *DatasetService {
	if gen == nil {
		gen = generator.New()
	}
	s := &DatasetService{
		records:       []domain.Employee{},
		generator:     gen,
		repo:          repo,
		generateCount: DefaultGenerateCount,
		seedCount:     DefaultSeedCount,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Records returns the active set. The slice is a copy; the records must be
// treated as read-only.
func (s *DatasetService) Records() []domain.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Employee, len(s.records))
	copy(out, s.records)
	return out
}

func (s *DatasetService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Generate replaces the active set with count synthetic employees. A zero
// count uses the configured default.
func (s *DatasetService) Generate(ctx context.Context, count int) ([]domain.Employee, error) {
	records, err := s.generate(count, s.generateCount)
	if err != nil {
		return nil, err
	}
	s.replace(ctx, records)
	logger.InfoLog(ctx, "generated %d employees", len(records))
	return records, nil
}

// GenerateAndSave generates, persists and then activates the new set.
func (s *DatasetService) GenerateAndSave(ctx context.Context, count int) ([]domain.Employee, error) {
	records, err := s.generate(count, s.seedCount)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, records); err != nil {
		return nil, err
	}
	s.replace(ctx, records)
	logger.InfoLog(ctx, "generated and saved %d employees", len(records))
	return records, nil
}

// LoadSaved activates the persisted dataset. It returns domain.ErrNotFound
// when nothing has been saved.
func (s *DatasetService) LoadSaved(ctx context.Context) (int, error) {
	records, found, err := s.repo.Load(ctx)
	if err != nil {
		logger.WarnLog(ctx, "failed to load saved dataset: %v", err)
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("saved dataset: %w", domain.ErrNotFound)
	}
	s.replace(ctx, records)
	logger.InfoLog(ctx, "loaded %d saved employees", len(records))
	return len(records), nil
}

// Upload activates a JSON array of employees. Malformed input yields a
// *domain.ParseError and keeps the current set.
func (s *DatasetService) Upload(ctx context.Context, data []byte) (int, error) {
	records, err := repository.DecodeEmployees("upload", data)
	if err != nil {
		logger.WarnLog(ctx, "rejected upload: %v", err)
		return 0, err
	}
	s.replace(ctx, records)
	logger.InfoLog(ctx, "uploaded %d employees", len(records))
	return len(records), nil
}

// Save persists the active set.
func (s *DatasetService) Save(ctx context.Context) (int, error) {
	records := s.Records()
	if err := s.repo.Save(ctx, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// WaitIndexing blocks until pending index runs finish.
func (s *DatasetService) WaitIndexing() {
	s.indexWG.Wait()
}

func (s *DatasetService) generate(count, fallback int) ([]domain.Employee, error) {
	if count == 0 {
		count = fallback
	}
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.generator.Generate(count)
}

func (s *DatasetService) replace(ctx context.Context, records []domain.Employee) {
	s.mu.Lock()
	s.records = records
	seq := s.indexSeq.Add(1)
	s.mu.Unlock()

	if s.indexer == nil {
		return
	}
	s.indexWG.Add(1)
	go func() {
		defer s.indexWG.Done()
		s.indexMu.Lock()
		defer s.indexMu.Unlock()
		// a newer set has been activated and will be indexed by its own run
		if seq != s.indexSeq.Load() {
			return
		}
		ctx := context.WithoutCancel(ctx)
		if err := s.indexer.IndexEmployees(ctx, records); err != nil {
			logger.ErrorLog(ctx, "Failed to index dataset: %v", err)
			return
		}
		logger.InfoLog(ctx, "indexed %d employees", len(records))
	}()
}
