package dataset

import (
	"errors"
	"fmt"
)

var (
	ErrHeterogeneous   = errors.New("record columns do not match dataset columns")
	ErrDuplicateColumn = errors.New("duplicate column name")
)

// Record is a single row keyed by column name. Values are nil (missing),
// int64, float64 or string.
type Record map[string]interface{}

// Dataset is an ordered, homogeneous sequence of records.
//
// Every record carries exactly the dataset's columns. A dataset without
// records has no columns, so views derived from it render nothing.
type Dataset struct {
	columns []string
	records []Record
}

// Empty returns the dataset with zero records and zero columns.
func Empty() Dataset {
	return Dataset{}
}

// New builds a dataset, copying the given records. Column order is taken
// from columns and must match the key set of every record.
func New(columns []string, records []Record) (Dataset, error) {
	if len(records) == 0 {
		return Empty(), nil
	}

	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if seen[c] {
			return Empty(), fmt.Errorf("%w: %q", ErrDuplicateColumn, c)
		}
		seen[c] = true
	}

	out := make([]Record, len(records))
	for i, rec := range records {
		if len(rec) != len(columns) {
			return Empty(), fmt.Errorf("%w: record %d has %d fields, want %d", ErrHeterogeneous, i, len(rec), len(columns))
		}
		cp := make(Record, len(columns))
		for _, c := range columns {
			v, ok := rec[c]
			if !ok {
				return Empty(), fmt.Errorf("%w: record %d is missing column %q", ErrHeterogeneous, i, c)
			}
			cp[c] = v
		}
		out[i] = cp
	}

	cols := make([]string, len(columns))
	copy(cols, columns)
	return Dataset{columns: cols, records: out}, nil
}

// MustNew is New for fixtures known to be valid.
func MustNew(columns []string, records []Record) Dataset {
	ds, err := New(columns, records)
	if err != nil {
		panic(err)
	}
	return ds
}

// Columns returns the column names in display order.
func (d Dataset) Columns() []string {
	cols := make([]string, len(d.columns))
	copy(cols, d.columns)
	return cols
}

// Len returns the number of records.
func (d Dataset) Len() int { return len(d.records) }

// IsEmpty reports whether the dataset holds no records.
func (d Dataset) IsEmpty() bool { return len(d.records) == 0 }

// HasColumn reports whether name is one of the dataset columns.
func (d Dataset) HasColumn(name string) bool {
	for _, c := range d.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Record returns the i-th record. The returned map must not be modified.
func (d Dataset) Record(i int) Record { return d.records[i] }

// Records returns the records in order. The maps must not be modified.
func (d Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Column returns the values of a single column in record order.
func (d Dataset) Column(name string) ([]interface{}, bool) {
	if !d.HasColumn(name) {
		return nil, false
	}
	values := make([]interface{}, len(d.records))
	for i, rec := range d.records {
		values[i] = rec[name]
	}
	return values, true
}

// Clone returns a deep copy that shares no maps with d.
func (d Dataset) Clone() Dataset {
	if d.IsEmpty() {
		return Empty()
	}
	out := Dataset{
		columns: d.Columns(),
		records: make([]Record, len(d.records)),
	}
	for i, rec := range d.records {
		cp := make(Record, len(rec))
		for k, v := range rec {
			cp[k] = v
		}
		out.records[i] = cp
	}
	return out
}
