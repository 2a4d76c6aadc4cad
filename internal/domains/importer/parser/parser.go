// Package parser turns an uploaded delimited file or workbook sheet into
// ordered, typed row records for one import kind.
package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/chvvasss/gastrotech-website-sub001/internal/domains/importer/model"
)

// ColumnError means the header is missing required columns. No rows are
// produced: column misalignment would silently corrupt every row after it.
type ColumnError struct {
	Missing []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("missing required column(s): %s", strings.Join(e.Missing, ", "))
}

// ParseError means the file itself is unreadable (bad encoding,
// unterminated quote, not a workbook). Hard stop, zero rows.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse file: %s", e.Reason)
}

// Result is the parser output: ordered rows plus the columns actually seen.
type Result struct {
	Rows         []model.Row
	ColumnsFound []string
}

// requiredColumns declares the fixed schema per import kind.
var requiredColumns = map[model.ImportKind][]string{
	model.KindVariantsCSV: {"model_code", "product_slug", "name_tr", "dimensions", "list_price", "weight_kg"},
	model.KindProductsCSV: {"slug", "name_tr", "series_slug", "brand_slug", "category_slug"},
	model.KindTaxonomyCSV: {"entity_type", "slug", "name_tr"},
}

// cellSetters maps a recognized column name to its Row field.
var cellSetters = map[string]func(*model.Row, string){
	"model_code":     func(r *model.Row, v string) { r.ModelCode = v },
	"product_slug":   func(r *model.Row, v string) { r.ProductSlug = v },
	"dimensions":     func(r *model.Row, v string) { r.Dimensions = v },
	"list_price":     func(r *model.Row, v string) { r.ListPrice = v },
	"weight_kg":      func(r *model.Row, v string) { r.WeightKG = v },
	"power_kw":       func(r *model.Row, v string) { r.PowerKW = v },
	"voltage":        func(r *model.Row, v string) { r.Voltage = v },
	"capacity":       func(r *model.Row, v string) { r.Capacity = v },
	"slug":           func(r *model.Row, v string) { r.Slug = v },
	"series_slug":    func(r *model.Row, v string) { r.SeriesSlug = v },
	"brand_slug":     func(r *model.Row, v string) { r.BrandSlug = v },
	"category_slug":  func(r *model.Row, v string) { r.CategorySlug = v },
	"description_tr": func(r *model.Row, v string) { r.DescriptionTR = v },
	"is_active":      func(r *model.Row, v string) { r.IsActive = v },
	"entity_type":    func(r *model.Row, v string) { r.EntityType = v },
	"parent_slug":    func(r *model.Row, v string) { r.ParentSlug = v },
	"sort_order":     func(r *model.Row, v string) { r.SortOrder = v },
	"name_tr":        func(r *model.Row, v string) { r.NameTR = v },
	"name_en":        func(r *model.Row, v string) { r.NameEN = v },
}

// RequiredColumns returns the declared column set of a kind.
func RequiredColumns(kind model.ImportKind) []string {
	cols := requiredColumns[kind]
	out := make([]string, len(cols))
	copy(out, cols)
	return out
}

// Parse decodes data into rows for the given kind. The format is taken
// from the file name: .xlsx goes through the workbook reader, everything
// else is read as CSV.
func Parse(fileName string, data []byte, kind model.ImportKind) (*Result, error) {
	var (
		records [][]string
		lines   []int
		err     error
	)

	if strings.HasSuffix(strings.ToLower(fileName), ".xlsx") {
		records, lines, err = readWorkbook(data)
	} else {
		records, lines, err = readCSV(data)
	}
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, &ParseError{Reason: "file is empty (no header row)"}
	}

	header := normalizeHeader(records[0])
	if err := checkColumns(header, kind); err != nil {
		return nil, err
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[name] = i
	}

	result := &Result{ColumnsFound: header}
	for i, record := range records[1:] {
		if blankRecord(record) {
			continue
		}

		// Row numbers are the 1-based file line each record starts on,
		// so a quoted cell spanning lines does not shift the rows below.
		row := model.Row{Number: lines[i+1]}
		for name, idx := range colIndex {
			if idx >= len(record) {
				continue
			}
			if set, ok := cellSetters[name]; ok {
				set(&row, strings.TrimSpace(record[idx]))
			}
		}
		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

// readCSV reads record by record so the true file line of each record is
// known; ReadAll would only give the record index.
func readCSV(data []byte) ([][]string, []int, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	var (
		records [][]string
		lines   []int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, &ParseError{Reason: err.Error()}
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record)
		lines = append(lines, line)
	}
	return records, lines, nil
}

func readWorkbook(data []byte) ([][]string, []int, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, &ParseError{Reason: err.Error()}
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, &ParseError{Reason: "workbook has no sheets"}
	}

	records, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, nil, &ParseError{Reason: err.Error()}
	}

	// Sheet rows map one to one onto record indexes.
	lines := make([]int, len(records))
	for i := range records {
		lines[i] = i + 1
	}
	return records, lines, nil
}

func normalizeHeader(raw []string) []string {
	header := make([]string, len(raw))
	for i, name := range raw {
		header[i] = strings.ToLower(strings.TrimSpace(name))
	}
	return header
}

func checkColumns(header []string, kind model.ImportKind) error {
	seen := make(map[string]bool, len(header))
	for _, name := range header {
		seen[name] = true
	}

	var missing []string
	for _, required := range requiredColumns[kind] {
		if !seen[required] {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &ColumnError{Missing: missing}
	}
	return nil
}

func blankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
