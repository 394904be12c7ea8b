package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"fleetsnap/internal/errors"
)

// LoadTable reads an uploaded CSV or XLSX file into a Table. The first
// row with any non-empty cell is taken as the header; everything below
// it becomes data rows. The core never touches raw file bytes beyond
// this entry point.
func LoadTable(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".xlsx", ".xlsm", ".xls":
		return loadXLSX(path)
	default:
		return nil, errors.NewParsingError(
			fmt.Sprintf("unsupported file type %q", filepath.Ext(path)), nil)
	}
}

func loadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewParsingError("failed to open file", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParsingError("failed to read CSV", err)
	}

	return tableFromRows(rows)
}

func loadXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewParsingError("failed to open workbook", err)
	}
	defer f.Close()

	// Exports carry a single data sheet, but take the first sheet with
	// content in case a cover sheet sneaks in.
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) == 0 {
			continue
		}
		if t, err := tableFromRows(rows); err == nil {
			return t, nil
		}
	}

	return nil, errors.NewParsingError("no sheet with tabular data found", nil)
}

func tableFromRows(rows [][]string) (*Table, error) {
	header := -1
	for i, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				header = i
				break
			}
		}
		if header >= 0 {
			break
		}
	}
	if header < 0 {
		return nil, errors.NewParsingError("file contains no header row", nil)
	}

	t := NewTable(rows[header])
	for _, row := range rows[header+1:] {
		empty := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}
		t.AppendRow(row)
	}
	return t, nil
}
