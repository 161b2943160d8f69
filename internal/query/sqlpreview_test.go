package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/hr_analytics_sample/internal/domain"
)

func TestBuildSQL(t *testing.T) {
	cfg := domain.QueryConfig{
		SelectedFields: []domain.FieldName{domain.FieldDepartment, domain.FieldStartDate},
		Conditions: []domain.Condition{
			{},
			cond(domain.FieldDepartment, domain.OpEqual, "Engineering"),
			cond(domain.FieldSalary, domain.OpGreater, "90000"),
			cond(domain.FieldLocation, domain.OpLike, "us"),
			cond(domain.FieldTerminationDate, domain.OpIsNull, ""),
			cond(domain.FieldSalary, domain.OpIsNotNull, ""),
			cond(domain.FieldAge, domain.OpPassThrough, ""),
		},
	}

	preview, err := BuildSQL(cfg)
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT department, start_date FROM employees WHERE department = $1 AND salary > $2 AND COALESCE(location::text, '') ILIKE $3 AND termination_date IS NULL AND (salary IS NOT NULL AND salary <> 0)",
		preview.SQL)
	assert.Equal(t, []interface{}{"Engineering", int64(90000), "%us%"}, preview.Args)
}

func TestBuildSQL_NoConditions(t *testing.T) {
	preview, err := BuildSQL(domain.QueryConfig{})
	require.NoError(t, err)
	assert.Equal(t, "SELECT NULL FROM employees", preview.SQL)
	assert.Empty(t, preview.Args)
}

func TestBuildSQL_UnknownField(t *testing.T) {
	_, err := BuildSQL(domain.QueryConfig{SelectedFields: []domain.FieldName{"bogus"}})
	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestColumn(t *testing.T) {
	assert.Equal(t, "id", Column(domain.FieldID))
	assert.Equal(t, "total_years_experience", Column(domain.FieldTotalYearsExperience))
	assert.Equal(t, "performance_score", Column(domain.FieldPerformanceScore))
}
