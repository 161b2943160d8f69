package simpleexcel

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	SectionDirectionHorizontal = "horizontal"
	SectionDirectionVertical   = "vertical"
)

// ReportTemplate represents the YAML structure.
type ReportTemplate struct {
	Sheets []SheetTemplate `yaml:"sheets"`
}

// SheetTemplate represents a sheet in the YAML.
type SheetTemplate struct {
	Name     string          `yaml:"name"`
	Sections []SectionConfig `yaml:"sections"`
}

// SectionConfig defines a section of data in a sheet.
type SectionConfig struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Data        interface{}    `yaml:"-"` // bound at runtime
	Locked      bool           `yaml:"locked"`
	ShowHeader  bool           `yaml:"show_header"`
	Direction   string         `yaml:"direction"` // "horizontal" or "vertical"
	Position    string         `yaml:"position"`  // e.g., "A1"
	AutoFilter  bool           `yaml:"auto_filter"`
	TitleStyle  *StyleTemplate `yaml:"title_style"`
	HeaderStyle *StyleTemplate `yaml:"header_style"`
	Columns     []ColumnConfig `yaml:"columns"`
}

// ColumnConfig defines a column in a section.
type ColumnConfig struct {
	FieldName string  `yaml:"field_name"` // struct field, map key or Record field
	Header    string  `yaml:"header"`
	Width     float64 `yaml:"width"`
}

// StyleTemplate defines basic styling.
type StyleTemplate struct {
	Font   *FontTemplate `yaml:"font"`
	Fill   *FillTemplate `yaml:"fill"`
	Locked *bool         `yaml:"locked"`
}

type FontTemplate struct {
	Bold  bool   `yaml:"bold"`
	Color string `yaml:"color"` // hex
}

type FillTemplate struct {
	Color string `yaml:"color"` // hex
}

// ParseTemplate decodes a YAML report template.
func ParseTemplate(r io.Reader) (*ReportTemplate, error) {
	var tmpl ReportTemplate
	if err := yaml.NewDecoder(r).Decode(&tmpl); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	for i, sheet := range tmpl.Sheets {
		if strings.TrimSpace(sheet.Name) == "" {
			return nil, fmt.Errorf("sheet %d has no name", i)
		}
	}
	return &tmpl, nil
}

// LoadTemplate reads a YAML report template from disk.
func LoadTemplate(path string) (*ReportTemplate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open yaml file: %w", err)
	}
	defer f.Close()
	return ParseTemplate(f)
}

// Clone returns a deep copy so a shared template can be bound per export.
func (t *ReportTemplate) Clone() *ReportTemplate {
	if t == nil {
		return nil
	}
	out := &ReportTemplate{Sheets: make([]SheetTemplate, len(t.Sheets))}
	for i, s := range t.Sheets {
		sections := make([]SectionConfig, len(s.Sections))
		for j, sec := range s.Sections {
			sec.Columns = append([]ColumnConfig(nil), sec.Columns...)
			sections[j] = sec
		}
		out.Sheets[i] = SheetTemplate{Name: s.Name, Sections: sections}
	}
	return out
}
