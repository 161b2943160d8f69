package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/hr_analytics_sample/internal/domain"
)

func TestParseAdHoc(t *testing.T) {
	cfg, err := parseAdHoc("department, salary", "salary|>|100000")
	require.NoError(t, err)
	assert.Equal(t, []domain.FieldName{domain.FieldDepartment, domain.FieldSalary}, cfg.SelectedFields)
	assert.Equal(t, []domain.Condition{{Field: domain.FieldSalary, Operator: domain.OpGreater, Value: "100000"}}, cfg.Conditions)

	cfg, err = parseAdHoc("terminationDate", "terminationDate|is null")
	require.NoError(t, err)
	assert.Equal(t, domain.OpIsNull, cfg.Conditions[0].Operator)
	assert.Empty(t, cfg.Conditions[0].Value)

	_, err = parseAdHoc("nickname", "")
	assert.Error(t, err)

	_, err = parseAdHoc("age", "age")
	assert.Error(t, err)

	_, err = parseAdHoc("age", "age|~|3")
	assert.Error(t, err)
}
