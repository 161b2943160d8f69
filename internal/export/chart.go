package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/locvowork/hr_analytics_sample/internal/domain"
)

// ChartKind selects how a result set is visualised.
type ChartKind string

const (
	ChartBar   ChartKind = "bar"
	ChartPie   ChartKind = "pie"
	ChartLine  ChartKind = "line"
	ChartTable ChartKind = "table"
)

// ParseChartKind validates s; the empty string means a bar chart.
func ParseChartKind(s string) (ChartKind, error) {
	switch k := ChartKind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return ChartBar, nil
	case ChartBar, ChartPie, ChartLine, ChartTable:
		return k, nil
	default:
		return "", &domain.ValidationError{Field: "type", Message: fmt.Sprintf("unknown chart type %q", s)}
	}
}

// ChartConfig is a render-ready chart description.
type ChartConfig struct {
	ChartType  ChartKind     `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	ShowLegend bool          `json:"showLegend"`
}

// ChartSeries is one named list of points.
type ChartSeries struct {
	Name string       `json:"name"`
	Data []ChartPoint `json:"data"`
}

// ChartPoint is a label/value pair. Label is the first column's value.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// TableColumn describes one table column.
type TableColumn struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// TableData is the tabular rendering of a result set.
type TableData struct {
	Columns []TableColumn `json:"columns"`
	Rows    [][]string    `json:"rows"`
}

// Visualization holds either a chart or a table.
type Visualization struct {
	Kind  ChartKind    `json:"kind"`
	Chart *ChartConfig `json:"chart,omitempty"`
	Table *TableData   `json:"table,omitempty"`
}

// Visualize turns rows into the requested visualisation. Charts plot the
// first key's value against the second key's value, so they need at least
// two distinct keys.
func Visualize(kind ChartKind, title string, rows []domain.Row, keys []string) (Visualization, error) {
	keys = distinct(keys)
	if kind == ChartTable {
		t := Table(rows, keys)
		return Visualization{Kind: kind, Table: &t}, nil
	}
	if len(keys) < 2 {
		return Visualization{}, &domain.ValidationError{
			Field:   "selectedFields",
			Message: fmt.Sprintf("%s chart needs at least two fields, got %d", kind, len(keys)),
		}
	}

	indexKey, valueKey := keys[0], keys[1]
	points := make([]ChartPoint, len(rows))
	for i, r := range rows {
		points[i] = ChartPoint{Label: r.Get(indexKey).String(), Value: numeric(r.Get(valueKey))}
	}

	cfg := &ChartConfig{
		ChartType: kind,
		Title:     title,
		XAxis:     label(indexKey),
		YAxis:     label(valueKey),
	}
	switch kind {
	case ChartBar:
		cfg.Series = []ChartSeries{{Name: valueKey, Data: points}}
	case ChartPie:
		cfg.Series = []ChartSeries{{Name: valueKey, Data: points}}
		cfg.ShowLegend = true
		cfg.XAxis, cfg.YAxis = "", ""
	case ChartLine:
		cfg.Series = []ChartSeries{{Name: "Series", Data: points}}
	default:
		return Visualization{}, &domain.ValidationError{Field: "type", Message: fmt.Sprintf("unknown chart type %q", kind)}
	}
	return Visualization{Kind: kind, Chart: cfg}, nil
}

// Table renders rows as strings with labelled columns.
func Table(rows []domain.Row, keys []string) TableData {
	t := TableData{Columns: make([]TableColumn, len(keys)), Rows: make([][]string, len(rows))}
	for i, k := range keys {
		t.Columns[i] = TableColumn{Key: k, Label: label(k)}
	}
	for i, r := range rows {
		cells := make([]string, len(keys))
		for j, k := range keys {
			cells[j] = r.Get(k).String()
		}
		t.Rows[i] = cells
	}
	return t
}

// FieldKeys converts field names to row keys.
func FieldKeys(fields []domain.FieldName) []string {
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = string(f)
	}
	return keys
}

func label(key string) string {
	return domain.FieldName(key).Label()
}

func numeric(v domain.Value) float64 {
	switch v.Kind {
	case domain.ValueNumber:
		return v.Num
	case domain.ValueNull:
		return 0
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
	if err != nil {
		return 0
	}
	return n
}

func distinct(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
