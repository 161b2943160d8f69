// Package analytics computes the fixed dashboard aggregations.
package analytics

import (
	"fmt"
	"math"
	"strings"

	"github.com/locvowork/hr_analytics_sample/internal/domain"
)

// Metric names a dashboard aggregation.
type Metric string

const (
	MetricHeadcount     Metric = "headcount"
	MetricSalaryByLevel Metric = "salary-by-level"
	MetricPerformance   Metric = "performance"
)

// Metrics lists the dashboard aggregations in display order.
func Metrics() []Metric {
	return []Metric{MetricHeadcount, MetricSalaryByLevel, MetricPerformance}
}

// ParseMetric validates s.
func ParseMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Metrics() {
		if m == known {
			return m, nil
		}
	}
	return "", &domain.ValidationError{Field: "metric", Message: fmt.Sprintf("unknown metric %q", s)}
}

// Result is an aggregation rendered as rows with fixed keys.
type Result struct {
	Metric Metric       `json:"metric"`
	Title  string       `json:"title"`
	Keys   []string     `json:"keys"`
	Rows   []domain.Row `json:"rows"`
}

// Compute runs the aggregation named by m.
func Compute(m Metric, records []domain.Employee) (Result, error) {
	switch m {
	case MetricHeadcount:
		return HeadcountByDepartment(records), nil
	case MetricSalaryByLevel:
		return AverageSalaryByLevel(records), nil
	case MetricPerformance:
		return PerformanceDistribution(records), nil
	default:
		return Result{}, &domain.ValidationError{Field: "metric", Message: fmt.Sprintf("unknown metric %q", m)}
	}
}

// HeadcountByDepartment counts active employees per department in order of
// first appearance.
func HeadcountByDepartment(records []domain.Employee) Result {
	g := newGroups()
	for _, r := range records {
		if r.Active() {
			g.add(r.Department, 0)
		}
	}
	rows := make([]domain.Row, 0, len(g.order))
	for _, dep := range g.order {
		rows = append(rows, domain.Row{
			{Key: "department", Value: domain.String(dep)},
			{Key: "count", Value: domain.Number(float64(g.count[dep]))},
		})
	}
	return Result{Metric: MetricHeadcount, Title: "Headcount by Department", Keys: []string{"department", "count"}, Rows: rows}
}

// AverageSalaryByLevel averages salary per level, rounded half up to a whole
// number, in order of first appearance.
func AverageSalaryByLevel(records []domain.Employee) Result {
	g := newGroups()
	for _, r := range records {
		g.add(r.Level, float64(r.Salary))
	}
	rows := make([]domain.Row, 0, len(g.order))
	for _, lvl := range g.order {
		avg := math.Floor(g.sum[lvl]/float64(g.count[lvl]) + 0.5)
		rows = append(rows, domain.Row{
			{Key: "level", Value: domain.String(lvl)},
			{Key: "averageSalary", Value: domain.Number(avg)},
		})
	}
	return Result{Metric: MetricSalaryByLevel, Title: "Average Salary by Level", Keys: []string{"level", "averageSalary"}, Rows: rows}
}

// PerformanceDistribution counts employees per current score, labelled
// "Score N", in order of first appearance.
func PerformanceDistribution(records []domain.Employee) Result {
	g := newGroups()
	for _, r := range records {
		g.add(fmt.Sprintf("Score %d", r.PerformanceScore), 0)
	}
	rows := make([]domain.Row, 0, len(g.order))
	for _, score := range g.order {
		rows = append(rows, domain.Row{
			{Key: "score", Value: domain.String(score)},
			{Key: "count", Value: domain.Number(float64(g.count[score]))},
		})
	}
	return Result{Metric: MetricPerformance, Title: "Performance Distribution", Keys: []string{"score", "count"}, Rows: rows}
}

// groups accumulates counts and sums per key, remembering first-seen order.
type groups struct {
	order []string
	count map[string]int
	sum   map[string]float64
}

func newGroups() *groups {
	return &groups{count: map[string]int{}, sum: map[string]float64{}}
}

func (g *groups) add(key string, v float64) {
	if _, ok := g.count[key]; !ok {
		g.order = append(g.order, key)
	}
	g.count[key]++
	g.sum[key] += v
}
