// Package flatfile persists the application's tables as flat CSV files,
// one file per table with a fixed header row. It stands in for a relational
// store in a single-user, single-process setting: every lookup is a linear
// scan and a save rewrites the whole file.
package flatfile

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"quizdesk/internal/domain"
)

// Table is one named table backed by a CSV file. Rows are kept in memory
// between Load and Save; storage order is insertion order.
type Table struct {
	path   string
	header []string
	rows   [][]string
}

// NewTable describes a table without touching the file system.
func NewTable(path string, header []string) *Table {
	return &Table{path: path, header: header}
}

// CreateIfMissing writes an empty table with its header row unless the file
// already exists. Idempotent.
func (t *Table) CreateIfMissing() error {
	if _, err := os.Stat(t.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("%w: stat %s: %v", domain.ErrStorage, t.path, err)
	}
	t.rows = nil
	return t.Save()
}

// Load reads the whole file into memory, validating the header and the
// arity of every row. A malformed file surfaces as a storage failure, never
// as an out-of-range index later on.
func (t *Table) Load() error {
	f, err := os.Open(t.path)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", domain.ErrStorage, t.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(t.header)
	records, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", domain.ErrStorage, t.path, err)
	}
	if len(records) == 0 {
		return fmt.Errorf("%w: %s: missing header row", domain.ErrStorage, t.path)
	}
	for i, col := range t.header {
		if records[0][i] != col {
			return fmt.Errorf("%w: %s: header column %d is %q, want %q",
				domain.ErrStorage, t.path, i, records[0][i], col)
		}
	}
	t.rows = records[1:]
	return nil
}

// Save rewrites the whole file. Not atomic: a crash mid-write loses the
// table, which the single-process design accepts.
func (t *Table) Save() error {
	f, err := os.Create(t.path)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", domain.ErrStorage, t.path, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(t.header); err != nil {
		f.Close()
		return fmt.Errorf("%w: write %s: %v", domain.ErrStorage, t.path, err)
	}
	if err := w.WriteAll(t.rows); err != nil {
		f.Close()
		return fmt.Errorf("%w: write %s: %v", domain.ErrStorage, t.path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("%w: flush %s: %v", domain.ErrStorage, t.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", domain.ErrStorage, t.path, err)
	}
	return nil
}

// NextID returns 1 + the maximum id present, or 1 for an empty table. Ids of
// deleted rows are never handed out again, even when the remaining ids are
// non-contiguous.
func (t *Table) NextID() int64 {
	var max int64
	for _, row := range t.rows {
		if id, err := strconv.ParseInt(row[0], 10, 64); err == nil && id > max {
			max = id
		}
	}
	return max + 1
}

// Append adds a row, assigning and returning the next id. The id is written
// into column 0; record must carry the remaining columns.
func (t *Table) Append(record []string) (int64, error) {
	if len(record) != len(t.header)-1 {
		return 0, fmt.Errorf("%w: %s: append arity %d, want %d",
			domain.ErrStorage, t.path, len(record), len(t.header)-1)
	}
	id := t.NextID()
	row := append([]string{strconv.FormatInt(id, 10)}, record...)
	t.rows = append(t.rows, row)
	return id, nil
}

// Scan visits every row in storage order and collects those matching pred.
func (t *Table) Scan(pred func(row []string) bool) [][]string {
	var out [][]string
	for _, row := range t.rows {
		if pred(row) {
			out = append(out, row)
		}
	}
	return out
}

// DeleteWhere removes every matching row, iterating in reverse positional
// order so removals do not shift rows still to be visited. Returns the
// number of rows removed.
func (t *Table) DeleteWhere(pred func(row []string) bool) int {
	removed := 0
	for i := len(t.rows) - 1; i >= 0; i-- {
		if pred(t.rows[i]) {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			removed++
		}
	}
	return removed
}

// DeleteFirst removes the first matching row in storage order and reports
// whether anything matched.
func (t *Table) DeleteFirst(pred func(row []string) bool) bool {
	for i, row := range t.rows {
		if pred(row) {
			t.rows = append(t.rows[:i], t.rows[i+1:]...)
			return true
		}
	}
	return false
}

// Len reports the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

func parseID(field string) (int64, error) {
	id, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad id %q: %v", domain.ErrStorage, field, err)
	}
	return id, nil
}

func parseInt(field string) (int, error) {
	n, err := strconv.Atoi(field)
	if err != nil {
		return 0, fmt.Errorf("%w: bad integer %q: %v", domain.ErrStorage, field, err)
	}
	return n, nil
}
