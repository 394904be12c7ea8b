package dataprocessing

// Table is an in-memory tabular structure with an ordered sequence of
// named columns and rows of string cell values, as loaded directly from
// an uploaded CSV or XLSX file. It is ephemeral: created per upload and
// discarded after normalization hands the data to the session store.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable creates an empty table with the given column headers.
func NewTable(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// AppendRow adds a row, padding or truncating it to the column count so
// that every stored row has exactly one cell per column. Ragged rows are
// common in hand-edited spreadsheets.
func (t *Table) AppendRow(cells []string) {
	row := make([]string, len(t.Columns))
	copy(row, cells)
	t.Rows = append(t.Rows, row)
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	return len(t.Columns)
}

// Cell returns the value at (row, col), or "" when out of range.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// SetCell writes the value at (row, col); out-of-range writes are ignored.
func (t *Table) SetCell(row, col int, value string) {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return
	}
	t.Rows[row][col] = value
}

// ColumnIndex returns the position of the column whose normalized name
// equals the normalized form of name, or -1 when absent.
func (t *Table) ColumnIndex(name string) int {
	want := NormalizeHeader(name)
	for i, c := range t.Columns {
		if NormalizeHeader(c) == want {
			return i
		}
	}
	return -1
}

// HasColumn reports whether a column with the given normalized name exists.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// AddColumn appends a new column. Values are padded with "" when shorter
// than the row count; extra values are dropped.
func (t *Table) AddColumn(name string, values []string) {
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		t.Rows[i] = append(t.Rows[i], v)
	}
}

// Filter returns a new table containing only the rows for which keep
// returns true. Columns are shared; rows are not copied.
func (t *Table) Filter(keep func(row []string) bool) *Table {
	out := &Table{Columns: t.Columns}
	for _, row := range t.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
