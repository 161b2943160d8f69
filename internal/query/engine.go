// Package query filters and projects employee records.
package query

import (
	"github.com/locvowork/hr_analytics_sample/internal/domain"
)

// Execute applies every complete condition (AND-combined) to records, then
// projects the surviving records onto fields in the given order. Relative
// record order is preserved. An empty field list yields one empty row per
// surviving record.
func Execute[R Record](records []R, conditions []domain.Condition, fields []domain.FieldName) []domain.Row {
	return Project(Filter(records, conditions), fields)
}

// Filter returns the records matching all complete conditions in a single
// pass. Conditions with no field or no operator are skipped.
func Filter[R Record](records []R, conditions []domain.Condition) []R {
	active := make([]domain.Condition, 0, len(conditions))
	for _, c := range conditions {
		if !c.Incomplete() {
			active = append(active, c)
		}
	}
	if len(active) == 0 {
		return records
	}

	out := make([]R, 0, len(records))
	for _, r := range records {
		pass := true
		for _, c := range active {
			if !Evaluate(r, c) {
				pass = false
				break
			}
		}
		if pass {
			out = append(out, r)
		}
	}
	return out
}

// Project builds one flat row per record holding only fields.
func Project[R Record](records []R, fields []domain.FieldName) []domain.Row {
	rows := make([]domain.Row, len(records))
	for i, r := range records {
		row := make(domain.Row, len(fields))
		for j, f := range fields {
			row[j] = domain.Cell{Key: string(f), Value: r.Value(f)}
		}
		rows[i] = row
	}
	return rows
}

// ExecuteConfig runs a saved or working configuration.
func ExecuteConfig[R Record](records []R, cfg domain.QueryConfig) []domain.Row {
	return Execute(records, cfg.Conditions, cfg.SelectedFields)
}
