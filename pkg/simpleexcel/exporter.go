package simpleexcel

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Record lets callers expose named values without reflection.
type Record interface {
	Field(name string) interface{}
}

// DataExporter is the main entry point for exporting data.
type DataExporter struct {
	sheets []*SheetBuilder
}

// =============================================================================
// Constructors
// =============================================================================

func NewDataExporter() *DataExporter {
	return &DataExporter{}
}

// NewDataExporterFromTemplate builds one sheet per template sheet. The
// template is copied, so the caller may reuse it.
func NewDataExporterFromTemplate(tmpl *ReportTemplate) *DataExporter {
	e := NewDataExporter()
	for _, sheet := range tmpl.Clone().Sheets {
		sb := e.AddSheet(sheet.Name)
		for i := range sheet.Sections {
			sb.AddSection(&sheet.Sections[i])
		}
	}
	return e
}

// NewDataExporterFromYamlConfig parses an inline YAML template.
func NewDataExporterFromYamlConfig(config string) (*DataExporter, error) {
	tmpl, err := ParseTemplate(strings.NewReader(config))
	if err != nil {
		return nil, err
	}
	return NewDataExporterFromTemplate(tmpl), nil
}

// =============================================================================
// Fluent API
// =============================================================================

// AddSheet starts a new sheet builder.
func (e *DataExporter) AddSheet(name string) *SheetBuilder {
	sb := &SheetBuilder{exporter: e, name: name}
	e.sheets = append(e.sheets, sb)
	return sb
}

// GetSheet returns the sheet with the given name, or nil.
func (e *DataExporter) GetSheet(name string) *SheetBuilder {
	for _, sb := range e.sheets {
		if sb.name == name {
			return sb
		}
	}
	return nil
}

// Section returns the first section with the given id, or nil.
func (e *DataExporter) Section(id string) *SectionConfig {
	for _, sb := range e.sheets {
		for _, sec := range sb.sections {
			if sec.ID == id {
				return sec
			}
		}
	}
	return nil
}

// BindSectionData binds data to every section with the given id.
func (e *DataExporter) BindSectionData(id string, data interface{}) *DataExporter {
	for _, sb := range e.sheets {
		for _, sec := range sb.sections {
			if sec.ID == id {
				sec.Data = data
			}
		}
	}
	return e
}

// BuildExcel renders every sheet into a new workbook. The caller closes it.
func (e *DataExporter) BuildExcel() (*excelize.File, error) {
	if len(e.sheets) == 0 {
		return nil, fmt.Errorf("no sheets to export")
	}
	f := excelize.NewFile()
	for i, sb := range e.sheets {
		if err := addSheet(f, i, sb.name); err != nil {
			f.Close()
			return nil, err
		}
		if err := renderSections(f, sb.name, sb.sections); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// WriteTo writes the styled workbook to w.
func (e *DataExporter) WriteTo(w io.Writer) (int64, error) {
	f, err := e.BuildExcel()
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return f.WriteTo(w)
}

// ToBytes exports the Excel file to an in-memory byte slice.
func (e *DataExporter) ToBytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := e.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// StreamTo writes the workbook using excelize's stream writer. Sections are
// stacked vertically and only title and header styles are applied, which
// keeps memory flat for large result sets.
func (e *DataExporter) StreamTo(w io.Writer) error {
	f, err := e.streamExcel()
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

// StreamToResponse writes the streamed workbook as an attachment. Headers
// are only set once the workbook has been rendered, so on error the caller
// can still write its own response.
func (e *DataExporter) StreamToResponse(w http.ResponseWriter, filename string) error {
	f, err := e.streamExcel()
	if err != nil {
		return err
	}
	defer f.Close()
	setDownloadHeaders(w, filename)
	_, err = f.WriteTo(w)
	return err
}

// WriteToResponse is the styled counterpart of StreamToResponse.
func (e *DataExporter) WriteToResponse(w http.ResponseWriter, filename string) error {
	f, err := e.BuildExcel()
	if err != nil {
		return err
	}
	defer f.Close()
	setDownloadHeaders(w, filename)
	_, err = f.WriteTo(w)
	return err
}

func (e *DataExporter) streamExcel() (*excelize.File, error) {
	if len(e.sheets) == 0 {
		return nil, fmt.Errorf("no sheets to export")
	}
	f := excelize.NewFile()
	for i, sb := range e.sheets {
		if err := addSheet(f, i, sb.name); err != nil {
			f.Close()
			return nil, err
		}
		sw, err := f.NewStreamWriter(sb.name)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create stream writer: %w", err)
		}
		if err := streamSections(f, sw, sb.sections); err != nil {
			f.Close()
			return nil, err
		}
		if err := sw.Flush(); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to flush stream: %w", err)
		}
	}
	return f, nil
}

// ContentType is the MIME type of xlsx workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func setDownloadHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
}

// =============================================================================
// SheetBuilder
// =============================================================================

type SheetBuilder struct {
	exporter *DataExporter
	name     string
	sections []*SectionConfig
}

func (sb *SheetBuilder) AddSection(config *SectionConfig) *SheetBuilder {
	sb.sections = append(sb.sections, config)
	return sb
}

func (sb *SheetBuilder) Build() *DataExporter {
	return sb.exporter
}

// =============================================================================
// Rendering Logic
// =============================================================================

func addSheet(f *excelize.File, index int, name string) error {
	if index == 0 {
		return f.SetSheetName("Sheet1", name)
	}
	if idx, _ := f.GetSheetIndex(name); idx != -1 {
		return fmt.Errorf("duplicate sheet %q", name)
	}
	_, err := f.NewSheet(name)
	return err
}

func renderSections(f *excelize.File, sheet string, sections []*SectionConfig) error {
	maxRow := 1            // next free row for vertical sections
	nextColHorizontal := 1 // next free column for horizontal sections
	hasLockedSections := false

	for _, sec := range sections {
		if sec.Locked {
			hasLockedSections = true
		}

		startCol, startRow := 1, maxRow
		if sec.Direction == SectionDirectionHorizontal {
			startCol, startRow = nextColHorizontal, 1
		}
		if sec.Position != "" {
			c, r, err := excelize.CellNameToCoordinates(sec.Position)
			if err != nil {
				return fmt.Errorf("section %q position: %w", sec.ID, err)
			}
			startCol, startRow = c, r
		}
		currentRow := startRow

		// Locked=false only matters once the sheet is protected.
		styleFor := func(base *StyleTemplate) (int, error) {
			s := &StyleTemplate{}
			if base != nil {
				*s = *base
			}
			locked := sec.Locked
			s.Locked = &locked
			return createStyle(f, s)
		}
		dataStyle, err := styleFor(nil)
		if err != nil {
			return err
		}

		if sec.Title != "" {
			cell, _ := excelize.CoordinatesToCellName(startCol, currentRow)
			if err := f.SetCellValue(sheet, cell, sec.Title); err != nil {
				return err
			}
			styleID, err := styleFor(sec.TitleStyle)
			if err != nil {
				return err
			}
			endCell := cell
			if len(sec.Columns) > 1 {
				endCell, _ = excelize.CoordinatesToCellName(startCol+len(sec.Columns)-1, currentRow)
				if err := f.MergeCell(sheet, cell, endCell); err != nil {
					return err
				}
			}
			if err := f.SetCellStyle(sheet, cell, endCell, styleID); err != nil {
				return err
			}
			currentRow++
		}

		headerRow := 0
		if sec.ShowHeader {
			headerRow = currentRow
			styleID, err := styleFor(sec.HeaderStyle)
			if err != nil {
				return err
			}
			for i, col := range sec.Columns {
				cell, _ := excelize.CoordinatesToCellName(startCol+i, currentRow)
				if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
					return err
				}
				if err := f.SetCellStyle(sheet, cell, cell, styleID); err != nil {
					return err
				}
				if col.Width > 0 {
					colName, _ := excelize.ColumnNumberToName(startCol + i)
					if err := f.SetColWidth(sheet, colName, colName, col.Width); err != nil {
						return err
					}
				}
			}
			currentRow++
		}

		items := reflect.ValueOf(sec.Data)
		if items.Kind() == reflect.Slice {
			for i := 0; i < items.Len(); i++ {
				for j, col := range sec.Columns {
					cell, _ := excelize.CoordinatesToCellName(startCol+j, currentRow)
					if err := f.SetCellValue(sheet, cell, extractValue(items.Index(i), col.FieldName)); err != nil {
						return err
					}
					if err := f.SetCellStyle(sheet, cell, cell, dataStyle); err != nil {
						return err
					}
				}
				currentRow++
			}
		}

		if sec.AutoFilter && headerRow > 0 && len(sec.Columns) > 0 {
			first, _ := excelize.CoordinatesToCellName(startCol, headerRow)
			last, _ := excelize.CoordinatesToCellName(startCol+len(sec.Columns)-1, max(currentRow-1, headerRow))
			if err := f.AutoFilter(sheet, first+":"+last, nil); err != nil {
				return err
			}
		}

		if currentRow > maxRow {
			maxRow = currentRow
		}
		nextColHorizontal = startCol + len(sec.Columns)
	}

	if hasLockedSections {
		return f.ProtectSheet(sheet, &excelize.SheetProtectionOptions{
			SelectLockedCells:   true,
			SelectUnlockedCells: true,
		})
	}
	return nil
}

func streamSections(f *excelize.File, sw *excelize.StreamWriter, sections []*SectionConfig) error {
	// Column widths must be set before the first row is written.
	widths := map[int]float64{}
	for _, sec := range sections {
		for i, col := range sec.Columns {
			if col.Width > widths[i+1] {
				widths[i+1] = col.Width
			}
		}
	}
	for col, width := range widths {
		if err := sw.SetColWidth(col, col, width); err != nil {
			return err
		}
	}

	rowNum := 1
	for _, sec := range sections {
		if sec.Title != "" {
			style, err := createStyle(f, sec.TitleStyle)
			if err != nil {
				return err
			}
			cell, _ := excelize.CoordinatesToCellName(1, rowNum)
			if err := sw.SetRow(cell, []interface{}{sec.Title}, excelize.RowOpts{StyleID: style}); err != nil {
				return err
			}
			rowNum++
		}

		if sec.ShowHeader && len(sec.Columns) > 0 {
			style, err := createStyle(f, sec.HeaderStyle)
			if err != nil {
				return err
			}
			headers := make([]interface{}, len(sec.Columns))
			for i, col := range sec.Columns {
				headers[i] = col.Header
			}
			cell, _ := excelize.CoordinatesToCellName(1, rowNum)
			if err := sw.SetRow(cell, headers, excelize.RowOpts{StyleID: style}); err != nil {
				return err
			}
			rowNum++
		}

		items := reflect.ValueOf(sec.Data)
		if items.Kind() == reflect.Slice {
			for i := 0; i < items.Len(); i++ {
				row := make([]interface{}, len(sec.Columns))
				for j, col := range sec.Columns {
					row[j] = extractValue(items.Index(i), col.FieldName)
				}
				cell, _ := excelize.CoordinatesToCellName(1, rowNum)
				if err := sw.SetRow(cell, row); err != nil {
					return fmt.Errorf("error writing row %d: %w", i+1, err)
				}
				rowNum++
			}
		}

		// blank row between sections
		rowNum++
	}
	return nil
}

func extractValue(item reflect.Value, fieldName string) interface{} {
	if !item.IsValid() {
		return ""
	}
	if item.CanInterface() {
		if r, ok := item.Interface().(Record); ok {
			return r.Field(fieldName)
		}
	}
	for item.Kind() == reflect.Ptr || item.Kind() == reflect.Interface {
		if item.IsNil() {
			return ""
		}
		item = item.Elem()
	}
	switch item.Kind() {
	case reflect.Struct:
		if f := item.FieldByName(fieldName); f.IsValid() && f.CanInterface() {
			return f.Interface()
		}
	case reflect.Map:
		if item.Type().Key().Kind() == reflect.String {
			if v := item.MapIndex(reflect.ValueOf(fieldName).Convert(item.Type().Key())); v.IsValid() {
				return v.Interface()
			}
		}
	}
	return ""
}

func createStyle(f *excelize.File, tmpl *StyleTemplate) (int, error) {
	style := &excelize.Style{}
	if tmpl == nil {
		return f.NewStyle(style)
	}
	if tmpl.Font != nil {
		style.Font = &excelize.Font{
			Bold:  tmpl.Font.Bold,
			Color: strings.TrimPrefix(tmpl.Font.Color, "#"),
		}
	}
	if tmpl.Fill != nil {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Color:   []string{strings.TrimPrefix(tmpl.Fill.Color, "#")},
			Pattern: 1,
		}
	}
	if tmpl.Locked != nil {
		style.Protection = &excelize.Protection{
			Locked: *tmpl.Locked,
		}
	}
	return f.NewStyle(style)
}
