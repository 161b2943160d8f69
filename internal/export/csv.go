// Package export renders query results as CSV, Excel workbooks and chart
// series.
package export

import (
	"io"
	"strings"

	"github.com/locvowork/hr_analytics_sample/internal/domain"
)

// CSV renders rows as comma separated text: a header line of the field
// names, then one line per row. Lines are joined by "\n" with no trailing
// newline. Values are written as-is, so values containing commas, quotes
// or newlines are not escaped.
func CSV(rows []domain.Row, fields []domain.FieldName) string {
	var sb strings.Builder
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = string(f)
	}
	sb.WriteString(strings.Join(header, ","))

	values := make([]string, len(fields))
	for _, row := range rows {
		for i, f := range fields {
			values[i] = row.Get(string(f)).String()
		}
		sb.WriteByte('\n')
		sb.WriteString(strings.Join(values, ","))
	}
	return sb.String()
}

// WriteCSV writes CSV(rows, fields) to w.
func WriteCSV(w io.Writer, rows []domain.Row, fields []domain.FieldName) error {
	_, err := io.WriteString(w, CSV(rows, fields))
	return err
}
