package database

import (
	"context"
	"fmt"
	"time"

	"github.com/locvowork/hr_analytics_sample/internal/domain"
	"github.com/locvowork/hr_analytics_sample/internal/generator"
	"github.com/locvowork/hr_analytics_sample/internal/logger"
)

// DataSeeder generates synthetic employees and writes them to the
// persisted dataset.
type DataSeeder struct {
	repo      domain.DatasetRepository
	generator *generator.Generator
}

func NewDataSeeder(repo domain.DatasetRepository, gen *generator.Generator) *DataSeeder {
	if gen == nil {
		gen = generator.New()
	}
	return &DataSeeder{repo: repo, generator: gen}
}

// SeedData generates count employees and overwrites the persisted dataset.
func (ds *DataSeeder) SeedData(ctx context.Context, count int) ([]domain.Employee, error) {
	start := time.Now()
	records, err := ds.generator.Generate(count)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	if err := ds.repo.Save(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to save dataset: %w", err)
	}
	logger.InfoLog(ctx, "seeded %d employees in %v", len(records), time.Since(start))
	return records, nil
}

// ClearData removes the persisted dataset.
func (ds *DataSeeder) ClearData(ctx context.Context) error {
	if err := ds.repo.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear dataset: %w", err)
	}
	logger.InfoLog(ctx, "cleared persisted dataset")
	return nil
}

// Presets
type SeedPreset string

const (
	PresetSmall  SeedPreset = "small"
	PresetMedium SeedPreset = "medium"
	PresetLarge  SeedPreset = "large"
	PresetXLarge SeedPreset = "xlarge"
)

// GetPresetCount returns the employee count for a preset. Unknown presets
// fall back to medium.
func GetPresetCount(preset SeedPreset) int {
	switch preset {
	case PresetSmall:
		return 100
	case PresetMedium:
		return 5000
	case PresetLarge:
		return 20000
	case PresetXLarge:
		return 50000
	default:
		return 5000
	}
}
