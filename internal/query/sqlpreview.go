package query

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/locvowork/hr_analytics_sample/internal/domain"
	"github.com/locvowork/hr_analytics_sample/internal/repository/builder"
)

// PreviewTable is the table name used in SQL previews.
const PreviewTable = "employees"

// SQLPreview is the Postgres rendering of a query configuration.
type SQLPreview struct {
	SQL  string        `json:"sql"`
	Args []interface{} `json:"args"`
}

// BuildSQL renders cfg as a parameterised Postgres SELECT. Incomplete
// conditions and pass-through operators are omitted. Null checks are
// rendered with the same falsy semantics the evaluator uses.
func BuildSQL(cfg domain.QueryConfig) (SQLPreview, error) {
	if err := cfg.Validate(); err != nil {
		return SQLPreview{}, err
	}

	cols := make([]string, 0, len(cfg.SelectedFields))
	for _, f := range cfg.SelectedFields {
		cols = append(cols, Column(f))
	}
	if len(cols) == 0 {
		cols = append(cols, "NULL")
	}

	b := builder.NewSQLBuilder().Select(cols...).From(PreviewTable)
	for _, c := range cfg.Conditions {
		if c.Incomplete() {
			continue
		}
		col := Column(c.Field)
		zero := "''"
		if c.Field.Kind() == domain.ValueNumber {
			zero = "0"
		}
		switch c.Operator {
		case domain.OpEqual:
			b.Where(col+" = ?", sqlArg(c))
		case domain.OpNotEqual:
			b.Where(fmt.Sprintf("(%s IS NULL OR %s <> ?)", col, col), sqlArg(c))
		case domain.OpGreater:
			b.Where(col+" > ?", sqlArg(c))
		case domain.OpLess:
			b.Where(col+" < ?", sqlArg(c))
		case domain.OpLike:
			b.Where(fmt.Sprintf("COALESCE(%s::text, '') ILIKE ?", col), "%"+c.Value+"%")
		case domain.OpIsNull:
			if c.Field.Kind() == domain.ValueDate {
				b.Where(col + " IS NULL")
				continue
			}
			b.Where(fmt.Sprintf("(%s IS NULL OR %s = %s)", col, col, zero))
		case domain.OpIsNotNull:
			if c.Field.Kind() == domain.ValueDate {
				b.Where(col + " IS NOT NULL")
				continue
			}
			b.Where(fmt.Sprintf("(%s IS NOT NULL AND %s <> %s)", col, col, zero))
		}
	}

	sql, args, err := b.BuildSafe()
	if err != nil {
		return SQLPreview{}, err
	}
	if args == nil {
		args = []interface{}{}
	}
	return SQLPreview{SQL: sql, Args: args}, nil
}

// Column maps a field name onto its snake_case column name.
func Column(f domain.FieldName) string {
	var sb strings.Builder
	for i, r := range string(f) {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func sqlArg(c domain.Condition) interface{} {
	if c.Field.Kind() != domain.ValueNumber {
		return c.Value
	}
	n := toNumber(c.Value)
	switch {
	case math.IsNaN(n) || math.IsInf(n, 0):
		return c.Value
	case n == math.Trunc(n):
		return int64(n)
	default:
		return n
	}
}
