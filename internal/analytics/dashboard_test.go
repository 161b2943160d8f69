package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/hr_analytics_sample/internal/domain"
)

func terminated() *domain.Date {
	d := domain.Date("2023-02-01")
	return &d
}

var staff = []domain.Employee{
	{ID: 1, Department: "Sales", Level: "Senior", Salary: 100, PerformanceScore: 4},
	{ID: 2, Department: "Engineering", Level: "Associate", Salary: 80, PerformanceScore: 3},
	{ID: 3, Department: "Sales", Level: "Senior", Salary: 101, PerformanceScore: 4, TerminationDate: terminated()},
	{ID: 4, Department: "HR", Level: "Senior", Salary: 100, PerformanceScore: 5},
	{ID: 5, Department: "Sales", Level: "Associate", Salary: 81, PerformanceScore: 4},
}

func TestHeadcountByDepartment(t *testing.T) {
	res := HeadcountByDepartment(staff)
	assert.Equal(t, []string{"department", "count"}, res.Keys)
	require.Len(t, res.Rows, 3)

	assert.Equal(t, "Sales", res.Rows[0].Get("department").Str)
	assert.Equal(t, 2.0, res.Rows[0].Get("count").Num)
	assert.Equal(t, "Engineering", res.Rows[1].Get("department").Str)
	assert.Equal(t, "HR", res.Rows[2].Get("department").Str)
}

func TestHeadcountSkipsDepartmentsWithOnlyLeavers(t *testing.T) {
	res := HeadcountByDepartment([]domain.Employee{{Department: "Finance", TerminationDate: terminated()}})
	assert.Empty(t, res.Rows)
}

func TestAverageSalaryByLevel_RoundsHalfUp(t *testing.T) {
	res := AverageSalaryByLevel(staff)
	require.Len(t, res.Rows, 2)

	// Senior: (100+101+100)/3 = 100.33, Associate: (80+81)/2 = 80.5
	assert.Equal(t, "Senior", res.Rows[0].Get("level").Str)
	assert.Equal(t, 100.0, res.Rows[0].Get("averageSalary").Num)
	assert.Equal(t, "Associate", res.Rows[1].Get("level").Str)
	assert.Equal(t, 81.0, res.Rows[1].Get("averageSalary").Num)
}

func TestPerformanceDistribution(t *testing.T) {
	res := PerformanceDistribution(staff)
	require.Len(t, res.Rows, 3)
	assert.Equal(t, "Score 4", res.Rows[0].Get("score").Str)
	assert.Equal(t, 3.0, res.Rows[0].Get("count").Num)
	assert.Equal(t, "Score 3", res.Rows[1].Get("score").Str)
	assert.Equal(t, "Score 5", res.Rows[2].Get("score").Str)
}

func TestCompute(t *testing.T) {
	for _, m := range Metrics() {
		res, err := Compute(m, staff)
		require.NoError(t, err)
		assert.Equal(t, m, res.Metric)
		assert.NotEmpty(t, res.Title)
	}

	_, err := ParseMetric("attrition")
	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)

	m, err := ParseMetric("Salary-By-Level")
	require.NoError(t, err)
	assert.Equal(t, MetricSalaryByLevel, m)
}

func TestEmptyDataset(t *testing.T) {
	for _, m := range Metrics() {
		res, err := Compute(m, nil)
		require.NoError(t, err)
		assert.Empty(t, res.Rows)
	}
}
