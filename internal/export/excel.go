package export

import (
	"fmt"
	"io"
	"net/http"

	"github.com/locvowork/hr_analytics_sample/internal/domain"
	"github.com/locvowork/hr_analytics_sample/pkg/simpleexcel"
)

const (
	// ResultsSectionID is the template section that receives query rows.
	ResultsSectionID = "results"
	defaultSheetName = "Query Results"
)

// excelRow exposes a projected row to the workbook exporter.
type excelRow domain.Row

func (r excelRow) Field(name string) interface{} {
	return domain.Row(r).Get(name).Interface()
}

// ExcelExporter writes query results to xlsx, optionally styled by a YAML
// report template that declares a section with id "results".
type ExcelExporter struct {
	template *simpleexcel.ReportTemplate
}

// NewExcelExporter accepts a nil template.
func NewExcelExporter(tmpl *simpleexcel.ReportTemplate) *ExcelExporter {
	return &ExcelExporter{template: tmpl}
}

// Write renders rows to w. Without a template the workbook is streamed.
func (x *ExcelExporter) Write(w io.Writer, rows []domain.Row, fields []domain.FieldName) error {
	exporter, err := x.exporter(rows, fields)
	if err != nil {
		return err
	}
	if x.template == nil {
		return exporter.StreamTo(w)
	}
	_, err = exporter.WriteTo(w)
	return err
}

// WriteResponse sends rows as an xlsx attachment named filename. Nothing is
// written to w when rendering fails.
func (x *ExcelExporter) WriteResponse(w http.ResponseWriter, filename string, rows []domain.Row, fields []domain.FieldName) error {
	exporter, err := x.exporter(rows, fields)
	if err != nil {
		return err
	}
	if x.template == nil {
		return exporter.StreamToResponse(w, filename)
	}
	return exporter.WriteToResponse(w, filename)
}

func (x *ExcelExporter) exporter(rows []domain.Row, fields []domain.FieldName) (*simpleexcel.DataExporter, error) {
	data := make([]excelRow, len(rows))
	for i, r := range rows {
		data[i] = excelRow(r)
	}

	if x.template == nil {
		exporter := simpleexcel.NewDataExporter()
		exporter.AddSheet(defaultSheetName).AddSection(&simpleexcel.SectionConfig{
			ID:          ResultsSectionID,
			ShowHeader:  true,
			HeaderStyle: &simpleexcel.StyleTemplate{Font: &simpleexcel.FontTemplate{Bold: true}},
			Columns:     columns(fields),
			Data:        data,
		})
		return exporter, nil
	}

	exporter := simpleexcel.NewDataExporterFromTemplate(x.template)
	sec := exporter.Section(ResultsSectionID)
	if sec == nil {
		return nil, fmt.Errorf("export template has no %q section", ResultsSectionID)
	}
	if len(sec.Columns) == 0 {
		sec.Columns = columns(fields)
	}
	exporter.BindSectionData(ResultsSectionID, data)
	return exporter, nil
}

func columns(fields []domain.FieldName) []simpleexcel.ColumnConfig {
	cols := make([]simpleexcel.ColumnConfig, len(fields))
	for i, f := range fields {
		cols[i] = simpleexcel.ColumnConfig{FieldName: string(f), Header: f.Label()}
	}
	return cols
}
