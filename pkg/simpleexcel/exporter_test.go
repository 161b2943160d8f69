package simpleexcel

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type headcount struct {
	Department string
	Count      int
}

type namedRecord map[string]interface{}

func (r namedRecord) Field(name string) interface{} { return r[name] }

const reportYAML = `
sheets:
  - name: "Report"
    sections:
      - id: "summary"
        title: "Headcount"
        show_header: true
        auto_filter: true
        title_style:
          font: {bold: true, color: "#1F4E78"}
        header_style:
          fill: {color: "#DDEBF7"}
        columns:
          - field_name: "Department"
            header: "Department"
            width: 24
          - field_name: "Count"
            header: "Employees"
`

func TestDataExporter_YamlTemplate(t *testing.T) {
	exporter, err := NewDataExporterFromYamlConfig(reportYAML)
	require.NoError(t, err)

	exporter.BindSectionData("summary", []headcount{{"Engineering", 35}, {"Sales", 20}})

	f, err := exporter.BuildExcel()
	require.NoError(t, err)
	defer f.Close()

	assertCell(t, f, "Report", "A1", "Headcount")
	assertCell(t, f, "Report", "A2", "Department")
	assertCell(t, f, "Report", "B2", "Employees")
	assertCell(t, f, "Report", "A3", "Engineering")
	assertCell(t, f, "Report", "B4", "20")

	width, err := f.GetColWidth("Report", "A")
	require.NoError(t, err)
	assert.Equal(t, 24.0, width)

	styleID, err := f.GetCellStyle("Report", "A2")
	require.NoError(t, err)
	assert.NotZero(t, styleID)
}

func TestDataExporter_MixedConfig(t *testing.T) {
	exporter, err := NewDataExporterFromYamlConfig(reportYAML)
	require.NoError(t, err)

	sheet := exporter.GetSheet("Report")
	require.NotNil(t, sheet)
	sheet.AddSection(&SectionConfig{
		Title:      "By location",
		ShowHeader: true,
		Data:       []namedRecord{{"location": "US-NY", "n": 3}},
		Columns: []ColumnConfig{
			{FieldName: "location", Header: "Location"},
			{FieldName: "n", Header: "Employees"},
		},
	})
	exporter.BindSectionData("summary", []headcount{{"HR", 10}})

	f, err := exporter.BuildExcel()
	require.NoError(t, err)
	defer f.Close()

	// summary occupies rows 1-3, the programmatic section starts right after
	assertCell(t, f, "Report", "A4", "By location")
	assertCell(t, f, "Report", "A5", "Location")
	assertCell(t, f, "Report", "A6", "US-NY")
	assertCell(t, f, "Report", "B6", "3")
}

func TestDataExporter_LockedSectionProtectsSheet(t *testing.T) {
	exporter := NewDataExporter()
	exporter.AddSheet("Locked").AddSection(&SectionConfig{
		ID:         "data",
		Locked:     true,
		ShowHeader: true,
		Columns:    []ColumnConfig{{FieldName: "Department", Header: "Department"}},
		Data:       []*headcount{{Department: "Finance"}},
	})

	f, err := exporter.BuildExcel()
	require.NoError(t, err)
	defer f.Close()

	assertCell(t, f, "Locked", "A2", "Finance")
	styleID, err := f.GetCellStyle("Locked", "A2")
	require.NoError(t, err)
	assert.NotZero(t, styleID)
}

func TestDataExporter_StreamTo(t *testing.T) {
	exporter := NewDataExporter()
	exporter.AddSheet("Results").AddSection(&SectionConfig{
		ID:         "rows",
		ShowHeader: true,
		Columns: []ColumnConfig{
			{FieldName: "Department", Header: "Department", Width: 20},
			{FieldName: "Count", Header: "Count"},
		},
	})
	rows := make([]headcount, 0, 2500)
	for i := 0; i < 2500; i++ {
		rows = append(rows, headcount{Department: "Ops", Count: i})
	}
	exporter.BindSectionData("rows", rows)

	var buf bytes.Buffer
	require.NoError(t, exporter.StreamTo(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assertCell(t, f, "Results", "A1", "Department")
	assertCell(t, f, "Results", "B2", "0")
	assertCell(t, f, "Results", "B2501", "2499")
}

func TestDataExporter_NoSheets(t *testing.T) {
	_, err := NewDataExporter().ToBytes()
	assert.Error(t, err)
}

func TestParseTemplate_RequiresSheetName(t *testing.T) {
	_, err := NewDataExporterFromYamlConfig("sheets:\n  - sections: []\n")
	assert.Error(t, err)
}

func TestTemplateCloneIsolatesBinding(t *testing.T) {
	exporter, err := NewDataExporterFromYamlConfig(reportYAML)
	require.NoError(t, err)
	exporter.Section("summary").Columns[0].Header = "Changed"

	again, err := NewDataExporterFromYamlConfig(reportYAML)
	require.NoError(t, err)
	assert.Equal(t, "Department", again.Section("summary").Columns[0].Header)
}

func assertCell(t *testing.T, f *excelize.File, sheet, cell, want string) {
	t.Helper()
	got, err := f.GetCellValue(sheet, cell)
	require.NoError(t, err)
	assert.Equal(t, want, got, "cell %s", cell)
}

func TestDataExporter_StreamToResponse(t *testing.T) {
	exporter := NewDataExporter()
	exporter.AddSheet("Results").AddSection(&SectionConfig{
		ID:         "rows",
		ShowHeader: true,
		Columns:    []ColumnConfig{{FieldName: "Department", Header: "Department"}},
		Data:       []headcount{{Department: "Ops"}},
	})

	rec := httptest.NewRecorder()
	require.NoError(t, exporter.StreamToResponse(rec, "rows.xlsx"))

	assert.Equal(t, ContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="rows.xlsx"`, rec.Header().Get("Content-Disposition"))

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	assertCell(t, f, "Results", "A2", "Ops")
}

func TestDataExporter_WriteToResponse(t *testing.T) {
	exporter, err := NewDataExporterFromYamlConfig(reportYAML)
	require.NoError(t, err)
	exporter.BindSectionData("summary", []headcount{{"Engineering", 35}})

	rec := httptest.NewRecorder()
	require.NoError(t, exporter.WriteToResponse(rec, "report.xlsx"))
	assert.Equal(t, ContentType, rec.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	assertCell(t, f, "Report", "A3", "Engineering")
}

func TestDataExporter_ResponseWithoutSheets(t *testing.T) {
	for name, write := range map[string]func(*DataExporter, *httptest.ResponseRecorder) error{
		"stream": func(e *DataExporter, rec *httptest.ResponseRecorder) error { return e.StreamToResponse(rec, "x.xlsx") },
		"styled": func(e *DataExporter, rec *httptest.ResponseRecorder) error { return e.WriteToResponse(rec, "x.xlsx") },
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			assert.Error(t, write(NewDataExporter(), rec))
			assert.Empty(t, rec.Header().Get("Content-Disposition"))
			assert.Zero(t, rec.Body.Len())
		})
	}
}
