package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/olivere/elastic/v7"

	"github.com/locvowork/hr_analytics_sample/internal/domain"
	"github.com/locvowork/hr_analytics_sample/internal/logger"
	"github.com/locvowork/hr_analytics_sample/pkg/dataflow"
)

// EmployeeDoc is the search-index shape of domain.Employee.
type EmployeeDoc struct {
	ID                   int     `json:"id"`
	Department           string  `json:"department"`
	Location             string  `json:"location"`
	Level                string  `json:"level"`
	Salary               int     `json:"salary"`
	StartDate            string  `json:"start_date"`
	TerminationDate      *string `json:"termination_date,omitempty"`
	Active               bool    `json:"active"`
	PerformanceScore     int     `json:"performance_score"`
	Manager              *int    `json:"manager,omitempty"`
	TotalYearsExperience int     `json:"total_years_experience"`
	Age                  int     `json:"age"`
	Gender               string  `json:"gender"`
	Ethnicity            string  `json:"ethnicity"`
	EducationLevel       string  `json:"education_level"`
	PromotionDate        *string `json:"promotion_date,omitempty"`
}

// NewEmployeeDoc flattens an employee for indexing. Performance history is
// not indexed.
func NewEmployeeDoc(e domain.Employee) EmployeeDoc {
	return EmployeeDoc{
		ID:                   e.ID,
		Department:           e.Department,
		Location:             e.Location,
		Level:                e.Level,
		Salary:               e.Salary,
		StartDate:            string(e.StartDate),
		TerminationDate:      dateString(e.TerminationDate),
		Active:               e.Active(),
		PerformanceScore:     e.PerformanceScore,
		Manager:              e.Manager,
		TotalYearsExperience: e.TotalYearsExperience,
		Age:                  e.Age,
		Gender:               e.Gender,
		Ethnicity:            e.Ethnicity,
		EducationLevel:       e.EducationLevel,
		PromotionDate:        dateString(e.PromotionDate),
	}
}

func dateString(d *domain.Date) *string {
	if d == nil || *d == "" {
		return nil
	}
	s := string(*d)
	return &s
}

const employeeMapping = `{
	"mappings": {
		"properties": {
			"id":                     {"type": "integer"},
			"department":             {"type": "keyword"},
			"location":               {"type": "keyword"},
			"level":                  {"type": "keyword"},
			"salary":                 {"type": "integer"},
			"start_date":             {"type": "date", "format": "yyyy-MM-dd"},
			"termination_date":       {"type": "date", "format": "yyyy-MM-dd"},
			"active":                 {"type": "boolean"},
			"performance_score":      {"type": "integer"},
			"manager":                {"type": "integer"},
			"total_years_experience": {"type": "integer"},
			"age":                    {"type": "integer"},
			"gender":                 {"type": "keyword"},
			"ethnicity":              {"type": "keyword"},
			"education_level":        {"type": "keyword"},
			"promotion_date":         {"type": "date", "format": "yyyy-MM-dd"}
		}
	}
}`

const defaultRetryBase = 200 * time.Millisecond

// ElasticConfig configures the search index mirror.
type ElasticConfig struct {
	URL        string
	Index      string
	BatchSize  int
	Workers    int
	MaxRetries int
}

// ElasticIndexer mirrors the active dataset into an Elasticsearch 7.x index.
type ElasticIndexer struct {
	client *elastic.Client
	cfg    ElasticConfig
}

func NewElasticIndexer(cfg ElasticConfig) (*ElasticIndexer, error) {
	if cfg.URL == "" {
		return nil, &domain.ValidationError{Field: "url", Message: "elasticsearch url is empty"}
	}
	if cfg.Index == "" {
		cfg.Index = "employees"
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 500
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	client, err := elastic.NewClient(
		elastic.SetURL(cfg.URL),
		elastic.SetSniff(false),
		elastic.SetHealthcheck(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	return &ElasticIndexer{client: client, cfg: cfg}, nil
}

// IndexEmployees replaces the index contents with records. The index is
// dropped and recreated so removed employees do not linger.
func (es *ElasticIndexer) IndexEmployees(ctx context.Context, records []domain.Employee) error {
	if err := es.resetIndex(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	docs := dataflow.Map(ctx, dataflow.From(ctx, records...), func(r domain.Employee) (EmployeeDoc, error) {
		return NewEmployeeDoc(r), nil
	}, dataflow.WithBufferSize(es.cfg.BatchSize))
	// one batch queued per bulk worker
	batches := dataflow.Batch(ctx, docs, es.cfg.BatchSize, dataflow.WithBufferSize(es.cfg.Workers))
	err := dataflow.ForEach(ctx, batches, func(batch []EmployeeDoc) error {
		return es.bulkIndex(ctx, batch)
	},
		dataflow.WithWorkers(es.cfg.Workers),
		dataflow.WithRetry(es.cfg.MaxRetries, dataflow.ExponentialBackoff(defaultRetryBase)),
	)
	if err != nil {
		return err
	}

	if _, err := es.client.Refresh(es.cfg.Index).Do(ctx); err != nil {
		return fmt.Errorf("refresh %s: %w", es.cfg.Index, err)
	}
	logger.DebugLog(ctx, "indexed %d employees into %s", len(records), es.cfg.Index)
	return nil
}

func (es *ElasticIndexer) resetIndex(ctx context.Context) error {
	if _, err := es.client.DeleteIndex(es.cfg.Index).Do(ctx); err != nil && !elastic.IsNotFound(err) {
		return fmt.Errorf("delete index %s: %w", es.cfg.Index, err)
	}
	if _, err := es.client.CreateIndex(es.cfg.Index).BodyString(employeeMapping).Do(ctx); err != nil {
		return fmt.Errorf("create index %s: %w", es.cfg.Index, err)
	}
	return nil
}

func (es *ElasticIndexer) bulkIndex(ctx context.Context, docs []EmployeeDoc) error {
	bulkRequest := es.client.Bulk()
	for _, doc := range docs {
		bulkRequest = bulkRequest.Add(elastic.NewBulkIndexRequest().
			Index(es.cfg.Index).
			Id(strconv.Itoa(doc.ID)).
			Doc(doc))
	}
	if bulkRequest.NumberOfActions() == 0 {
		return nil
	}

	resp, err := bulkRequest.Do(ctx)
	if err != nil {
		return fmt.Errorf("bulk index failed: %w", err)
	}
	if resp.Errors {
		for _, item := range resp.Failed() {
			if item.Error != nil {
				return fmt.Errorf("bulk item %s failed: %s", item.Id, item.Error.Reason)
			}
		}
	}
	return nil
}
