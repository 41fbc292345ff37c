package pipeline

import (
	"fmt"
	"sort"

	"go-csv-aggregator/internal/dataset"
)

// DefaultPageSize is the number of rows per grid page.
const DefaultPageSize = 10

// ViewOptions selects the page and sort order of a table view. Page is
// zero based.
type ViewOptions struct {
	Page       int
	PageSize   int
	SortBy     string
	Descending bool
}

// Column describes one grid column.
type Column struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Type string       `json:"type"` // numeric|text
	Role dataset.Role `json:"role"`
}

// Table is one page of a dataset ready for display.
type Table struct {
	Columns    []Column         `json:"columns"`
	Rows       []dataset.Record `json:"rows"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	PageCount  int              `json:"page_count"`
	TotalRows  int              `json:"total_rows"`
	SortBy     string           `json:"sort_by,omitempty"`
	Descending bool             `json:"descending,omitempty"`
}

// ------------------- Presentation -------------------

// Present derives the grid columns from ds and returns the requested page,
// sorted by opts.SortBy when set. Missing values sort last in both
// directions.
func Present(ds dataset.Dataset, opts ViewOptions) (Table, error) {
	if opts.Page < 0 {
		return Table{}, fmt.Errorf("%w: %d", ErrInvalidPage, opts.Page)
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	roles := dataset.Roles(ds)
	columns := make([]Column, 0, len(roles))
	for _, r := range roles {
		typ := "text"
		if r.Role == dataset.Numeric {
			typ = "numeric"
		}
		columns = append(columns, Column{ID: r.Name, Name: r.Name, Type: typ, Role: r.Role})
	}

	records := ds.Records()
	if opts.SortBy != "" {
		if !ds.HasColumn(opts.SortBy) {
			return Table{}, fmt.Errorf("%w: %q", ErrUnknownColumn, opts.SortBy)
		}
		sortRecords(records, opts.SortBy, ds.RoleOf(opts.SortBy) == dataset.Numeric, opts.Descending)
	}

	total := len(records)
	pageCount := (total + pageSize - 1) / pageSize

	rows := []dataset.Record{}
	if start := opts.Page * pageSize; start < total {
		end := start + pageSize
		if end > total {
			end = total
		}
		rows = records[start:end]
	}

	return Table{
		Columns:    columns,
		Rows:       rows,
		Page:       opts.Page,
		PageSize:   pageSize,
		PageCount:  pageCount,
		TotalRows:  total,
		SortBy:     opts.SortBy,
		Descending: opts.Descending && opts.SortBy != "",
	}, nil
}

func sortRecords(records []dataset.Record, column string, numeric, descending bool) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i][column], records[j][column]
		aMissing, bMissing := dataset.IsMissing(a), dataset.IsMissing(b)
		switch {
		case aMissing:
			return false
		case bMissing:
			return true
		}
		c := dataset.Compare(a, b, numeric)
		if descending {
			return c > 0
		}
		return c < 0
	})
}
