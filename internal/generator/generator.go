// Package generator synthesises employee datasets with a realistic shape:
// weighted department, level and location mixes, banded salaries, tenure
// dates inside a five year window and a backwards-only manager hierarchy.
package generator

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/locvowork/hr_analytics_sample/internal/domain"
)

const (
	// TerminationRate is the share of records given a termination date.
	TerminationRate         = 0.10
	// PromotionRate is the share of records given a promotion date.
	PromotionRate           = 0.30
	// UnmanagedCount is how many leading records have no manager.
	UnmanagedCount          = 10
	// DefaultPerformanceScore is used when a record has no review history.
	DefaultPerformanceScore = 4

	tenureYears       = 5
	minScore          = 3
	maxScore          = 5
	minAge            = 22
	maxAge            = 57
	maxYearsExp       = 20
	daysPerReviewYear = 365
)

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the random source. Use a seeded source for reproducible output.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) {
		if r != nil {
			g.rng = r
		}
	}
}

// WithClock sets the function that supplies "now".
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithCatalog replaces the default enumerations and weights.
func WithCatalog(c Catalog) Option {
	return func(g *Generator) {
		g.catalog = c
	}
}

// Generator produces synthetic employee records. It is not safe for
// concurrent use because it owns a single random source.
type Generator struct {
	catalog     Catalog
	departments Distribution
	levels      Distribution
	rng         *rand.Rand
	now         func() time.Time
}

// New creates a Generator seeded from the current time unless overridden.
func New(opts ...Option) *Generator {
	g := &Generator{
		catalog: DefaultCatalog(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		now:     time.Now,
	}
	for _, o := range opts {
		o(g)
	}
	g.departments = g.catalog.departmentDistribution()
	g.levels = g.catalog.levelDistribution()
	return g
}

// Generate returns exactly count records with ids 1..count in order.
func (g *Generator) Generate(count int) ([]domain.Employee, error) {
	if count < 0 {
		return nil, &domain.ValidationError{Field: "count", Message: fmt.Sprintf("must not be negative, got %d", count)}
	}

	now := g.now().UTC()
	windowStart := time.Date(now.Year()-tenureYears, now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	batch := newArena(count)
	for i := 0; i < count; i++ {
		idx := batch.add(g.record(i+1, now, windowStart))

		managerIdx, ok := g.pickManager(i + 1)
		if !ok {
			continue
		}
		if err := batch.linkManager(idx, managerIdx); err != nil {
			return nil, err
		}
	}
	return batch.records, nil
}

func (g *Generator) record(id int, now, windowStart time.Time) domain.Employee {
	department := g.departments.Sample(g.rng)
	level := g.levels.Sample(g.rng)
	location := g.catalog.Locations.Sample(g.rng)

	dep := g.catalog.department(department)
	baseSalary := math.Floor(g.rng.Float64()*float64(dep.MaxSalary-dep.MinSalary) + float64(dep.MinSalary))
	salary := int(math.Floor(baseSalary * g.catalog.level(level).SalaryMultiplier))

	start := g.dateBetween(windowStart, now)

	var termination *domain.Date
	if g.rng.Float64() < TerminationRate {
		termination = domain.NewDatePtr(g.dateBetween(start, now))
	}

	history := g.performanceHistory(now, int(now.Sub(start)/(daysPerReviewYear*24*time.Hour)))
	score := DefaultPerformanceScore
	if len(history) > 0 {
		score = history[0].Score
	}

	e := domain.Employee{
		ID:                   id,
		Department:           department,
		Location:             location,
		Level:                level,
		Salary:               salary,
		StartDate:            domain.NewDate(start),
		TerminationDate:      termination,
		PerformanceScore:     score,
		PerformanceHistory:   history,
		TotalYearsExperience: g.rng.Intn(maxYearsExp) + 1,
		Age:                  g.rng.Intn(maxAge-minAge+1) + minAge,
		Gender:               g.pick(g.catalog.Genders),
		Ethnicity:            g.pick(g.catalog.Ethnicities),
		EducationLevel:       g.pick(g.catalog.EducationLevels),
	}
	if g.rng.Float64() < PromotionRate {
		e.PromotionDate = domain.NewDatePtr(g.dateBetween(start, now))
	}
	return e
}

// pickManager returns the batch index of the manager for record id, drawn
// uniformly from ids [1, id-2].
func (g *Generator) pickManager(id int) (int, bool) {
	if id <= UnmanagedCount || id-2 < 1 {
		return 0, false
	}
	managerID := g.rng.Intn(id-2) + 1
	return managerID - 1, true
}

// performanceHistory returns one entry per full year, most recent first.
func (g *Generator) performanceHistory(now time.Time, years int) []domain.PerformanceEntry {
	history := make([]domain.PerformanceEntry, 0, years)
	for i := 0; i < years; i++ {
		history = append(history, domain.PerformanceEntry{
			Year:  now.Year() - i,
			Score: g.rng.Intn(maxScore-minScore+1) + minScore,
		})
	}
	return history
}

func (g *Generator) dateBetween(start, end time.Time) time.Time {
	if !end.After(start) {
		return start
	}
	return start.Add(time.Duration(g.rng.Float64() * float64(end.Sub(start))))
}

func (g *Generator) pick(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[g.rng.Intn(len(items))]
}
