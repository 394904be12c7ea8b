// Package exporter writes stored snapshot tables out as CSV, for
// download from the API or for feeding downstream tooling.
package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"fleetsnap/internal/dataprocessing"
)

// WriteOptions configures CSV output.
type WriteOptions struct {
	// BOMPrefix adds a UTF-8 BOM so Excel opens the file correctly.
	BOMPrefix bool
}

// WriteCSV writes a table to w: header row first, then data rows in
// stored order.
func WriteCSV(w io.Writer, t *dataprocessing.Table, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
