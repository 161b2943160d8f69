package service

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/locvowork/hr_analytics_sample/internal/analytics"
	"github.com/locvowork/hr_analytics_sample/internal/domain"
	"github.com/locvowork/hr_analytics_sample/internal/export"
	"github.com/locvowork/hr_analytics_sample/internal/logger"
	"github.com/locvowork/hr_analytics_sample/internal/query"
	"github.com/locvowork/hr_analytics_sample/internal/registry"
)

const resultsTitle = "Query Results"

// RecordSource supplies the active record set.
type RecordSource interface {
	Records() []domain.Employee
}

// QueryService holds the working query configuration and the last result
// set, and fronts the saved query registry.
type QueryService struct {
	mu      sync.RWMutex
	working domain.QueryConfig
	results []domain.Row

	source   RecordSource
	registry *registry.Registry
	repo     domain.SavedQueryRepository
	excel    *export.ExcelExporter
}

func NewQueryService(source RecordSource, reg *registry.Registry, repo domain.SavedQueryRepository, excel *export.ExcelExporter) *QueryService {
	if excel == nil {
		excel = export.NewExcelExporter(nil)
	}
	return &QueryService{
		working:  domain.DefaultQueryConfig(),
		results:  []domain.Row{},
		source:   source,
		registry: reg,
		repo:     repo,
		excel:    excel,
	}
}

// Config returns a copy of the working configuration.
func (s *QueryService) Config() domain.QueryConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.working.Clone()
}

// SetConfig replaces the working configuration.
func (s *QueryService) SetConfig(cfg domain.QueryConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.working = cfg.Clone()
	s.mu.Unlock()
	return nil
}

// Execute runs the working configuration against the active set. A non-nil
// cfg replaces the working configuration first.
func (s *QueryService) Execute(ctx context.Context, cfg *domain.QueryConfig) ([]domain.Row, error) {
	if cfg != nil {
		if err := s.SetConfig(*cfg); err != nil {
			return nil, err
		}
	}
	working := s.Config()
	rows := query.ExecuteConfig(s.source.Records(), working)

	s.mu.Lock()
	s.results = rows
	s.mu.Unlock()

	logger.DebugLog(ctx, "query returned %d rows", len(rows))
	return rows, nil
}

// Results returns the rows of the last execution.
func (s *QueryService) Results() []domain.Row {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results
}

func (s *QueryService) snapshot() ([]domain.Row, []domain.FieldName) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.results, s.working.Clone().SelectedFields
}

// ExportCSV writes the last results using the working field selection.
func (s *QueryService) ExportCSV(w io.Writer) error {
	rows, fields := s.snapshot()
	return export.WriteCSV(w, rows, fields)
}

// ExportExcel writes the last results as an xlsx workbook.
func (s *QueryService) ExportExcel(w io.Writer) error {
	rows, fields := s.snapshot()
	return s.excel.Write(w, rows, fields)
}

// ExportExcelResponse sends the last results as an xlsx attachment.
func (s *QueryService) ExportExcelResponse(w http.ResponseWriter, filename string) error {
	rows, fields := s.snapshot()
	return s.excel.WriteResponse(w, filename, rows, fields)
}

// Chart visualises the last results.
func (s *QueryService) Chart(kind export.ChartKind) (export.Visualization, error) {
	rows, fields := s.snapshot()
	return export.Visualize(kind, resultsTitle, rows, export.FieldKeys(fields))
}

// SQL renders the working configuration as a Postgres query.
func (s *QueryService) SQL() (query.SQLPreview, error) {
	return query.BuildSQL(s.Config())
}

// SaveQuery stores the working configuration under name and persists the
// registry.
func (s *QueryService) SaveQuery(ctx context.Context, name string) (domain.SavedQuery, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.SavedQuery{}, &domain.ValidationError{Field: "name", Message: "query name is empty"}
	}
	saved, err := s.registry.Save(name, s.Config())
	if err != nil {
		return domain.SavedQuery{}, err
	}
	if err := s.persist(ctx); err != nil {
		return saved, err
	}
	logger.InfoLog(ctx, "saved query %q as %d", saved.Name, saved.ID)
	return saved, nil
}

func (s *QueryService) ListQueries() []domain.SavedQuery {
	return s.registry.List()
}

// LoadQuery replaces the working configuration with a saved one.
func (s *QueryService) LoadQuery(id int64) (domain.QueryConfig, error) {
	cfg, err := s.registry.Load(id)
	if err != nil {
		return domain.QueryConfig{}, err
	}
	s.mu.Lock()
	s.working = cfg.Clone()
	s.mu.Unlock()
	return cfg, nil
}

// RestoreQueries reloads persisted saved queries and seeds presets into an
// empty registry.
func (s *QueryService) RestoreQueries(ctx context.Context, presets []domain.SavedQuery) error {
	if s.repo != nil {
		queries, err := s.repo.Load(ctx)
		if err != nil {
			return err
		}
		s.registry.Restore(queries)
	}

	n, err := s.registry.SeedPresets(presets)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.InfoLog(ctx, "seeded %d preset queries", n)
		return s.persist(ctx)
	}
	return nil
}

// DashboardView is one dashboard aggregation with its visualisation.
type DashboardView struct {
	analytics.Result
	Visualization export.Visualization `json:"visualization"`
}

// Dashboard computes metric over the active set.
func (s *QueryService) Dashboard(metric analytics.Metric, kind export.ChartKind) (DashboardView, error) {
	result, err := analytics.Compute(metric, s.source.Records())
	if err != nil {
		return DashboardView{}, err
	}
	vis, err := export.Visualize(kind, result.Title, result.Rows, result.Keys)
	if err != nil {
		return DashboardView{}, err
	}
	return DashboardView{Result: result, Visualization: vis}, nil
}

func (s *QueryService) persist(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	return s.repo.Save(ctx, s.registry.List())
}
