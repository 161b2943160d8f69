package registry

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/locvowork/hr_analytics_sample/internal/domain"
)

type presetFile struct {
	Queries []domain.SavedQuery `yaml:"queries"`
}

// ReadPresets decodes a YAML preset document:
//
//	queries:
//	  - name: Engineering salaries
//	    config:
//	      selected_fields: [department, salary]
//	      conditions:
//	        - {field: department, operator: "=", value: Engineering}
func ReadPresets(r io.Reader) ([]domain.SavedQuery, error) {
	var f presetFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, &domain.ParseError{Source: "query presets", Err: err}
	}
	for i, q := range f.Queries {
		if q.Name == "" {
			return nil, &domain.ValidationError{Field: "name", Message: fmt.Sprintf("preset %d has no name", i)}
		}
		if err := q.Config.Validate(); err != nil {
			return nil, err
		}
	}
	return f.Queries, nil
}

// LoadPresetFile reads presets from path.
func LoadPresetFile(path string) ([]domain.SavedQuery, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open presets: %w", err)
	}
	defer f.Close()
	return ReadPresets(f)
}

// SeedPresets saves each preset under a fresh id. It does nothing when the
// registry already holds queries and reports how many were added.
func (r *Registry) SeedPresets(presets []domain.SavedQuery) (int, error) {
	if r.Len() > 0 {
		return 0, nil
	}
	for i, p := range presets {
		if _, err := r.Save(p.Name, p.Config); err != nil {
			return i, err
		}
	}
	return len(presets), nil
}
