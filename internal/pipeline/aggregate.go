package pipeline

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go-csv-aggregator/internal/dataset"
)

// Function is an aggregation applied to each value column of a group.
type Function string

const (
	Mean Function = "mean"
	Min  Function = "min"
	Max  Function = "max"
)

// Functions lists the supported aggregations in menu order.
var Functions = []Function{Mean, Min, Max}

// ParseFunction validates a function name.
func ParseFunction(name string) (Function, error) {
	f := Function(strings.ToLower(strings.TrimSpace(name)))
	switch f {
	case Mean, Min, Max:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFunction, name)
}

// AggregationRequest selects how the input dataset is summarised.
type AggregationRequest struct {
	GroupBy  []string `json:"group_by"`
	Values   []string `json:"values"`
	Function Function `json:"function"`
}

// groupState holds the running aggregates of one group.
type groupState struct {
	key    []interface{}
	values []accumulator
}

// accumulator tracks the numeric values of one column within a group.
type accumulator struct {
	count          int
	sum            float64
	min, max       float64
	minInt, maxInt int64
	allInt         bool
}

func (a *accumulator) add(v interface{}) {
	f, ok := dataset.ToFloat(v)
	if !ok {
		return
	}
	i, isInt := v.(int64)
	if a.count == 0 {
		a.min, a.max, a.allInt = f, f, isInt
		a.minInt, a.maxInt = i, i
	} else {
		if f < a.min {
			a.min = f
		}
		if f > a.max {
			a.max = f
		}
		a.allInt = a.allInt && isInt
		// int64 extremes stay exact beyond 2^53
		if a.allInt {
			a.minInt = min(a.minInt, i)
			a.maxInt = max(a.maxInt, i)
		}
	}
	a.sum += f
	a.count++
}

func (a *accumulator) result(fn Function) interface{} {
	if a.count == 0 {
		return nil
	}
	switch fn {
	case Min:
		if a.allInt {
			return a.minInt
		}
		return a.min
	case Max:
		if a.allInt {
			return a.maxInt
		}
		return a.max
	default:
		return a.sum / float64(a.count)
	}
}

// ------------------- Aggregation -------------------

// Aggregate groups ds by req.GroupBy and applies req.Function to every
// column in req.Values. Without value columns the result is empty. Without
// grouping columns the whole dataset forms one group. Records with a
// missing grouping value are dropped, non-numeric values are skipped, and
// groups come out ordered by their key.
func Aggregate(ds dataset.Dataset, req AggregationRequest) (dataset.Dataset, error) {
	if len(req.Values) == 0 {
		return dataset.Empty(), nil
	}

	fn := req.Function
	if fn == "" {
		fn = Mean
	}
	fn, err := ParseFunction(string(fn))
	if err != nil {
		return dataset.Empty(), err
	}

	if err := checkColumns(ds, req.GroupBy, req.Values); err != nil {
		return dataset.Empty(), err
	}

	groups := make(map[string]*groupState)
	var order []*groupState

	if len(req.GroupBy) == 0 {
		g := &groupState{values: make([]accumulator, len(req.Values))}
		groups[""] = g
		order = append(order, g)
	}

	for _, rec := range ds.Records() {
		key, ok := groupKey(rec, req.GroupBy)
		if !ok {
			continue
		}
		g, exists := groups[key]
		if !exists {
			g = &groupState{
				key:    make([]interface{}, len(req.GroupBy)),
				values: make([]accumulator, len(req.Values)),
			}
			for i, c := range req.GroupBy {
				g.key[i] = rec[c]
			}
			groups[key] = g
			order = append(order, g)
		}
		for i, c := range req.Values {
			g.values[i].add(rec[c])
		}
	}

	numericKey := make([]bool, len(req.GroupBy))
	for i, c := range req.GroupBy {
		numericKey[i] = ds.RoleOf(c) == dataset.Numeric
	}
	sort.SliceStable(order, func(i, j int) bool {
		for k := range req.GroupBy {
			if c := dataset.Compare(order[i].key[k], order[j].key[k], numericKey[k]); c != 0 {
				return c < 0
			}
		}
		return false
	})

	columns := make([]string, 0, len(req.GroupBy)+len(req.Values))
	columns = append(columns, req.GroupBy...)
	columns = append(columns, req.Values...)

	records := make([]dataset.Record, 0, len(order))
	for _, g := range order {
		rec := make(dataset.Record, len(columns))
		for i, c := range req.GroupBy {
			rec[c] = g.key[i]
		}
		for i, c := range req.Values {
			rec[c] = g.values[i].result(fn)
		}
		records = append(records, rec)
	}

	return dataset.New(columns, records)
}

func checkColumns(ds dataset.Dataset, groupBy, values []string) error {
	grouped := make(map[string]bool, len(groupBy))
	for _, c := range groupBy {
		if !ds.HasColumn(c) {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, c)
		}
		grouped[c] = true
	}
	seen := make(map[string]bool, len(values))
	for _, c := range values {
		if !ds.HasColumn(c) {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, c)
		}
		if grouped[c] {
			return fmt.Errorf("%w: %q", ErrOverlappingColumns, c)
		}
		if seen[c] {
			return fmt.Errorf("%w: %q listed twice", ErrOverlappingColumns, c)
		}
		seen[c] = true
	}
	return nil
}

// groupKey encodes the grouping values of rec. It reports false when any
// of them is missing.
func groupKey(rec dataset.Record, groupBy []string) (string, bool) {
	if len(groupBy) == 0 {
		return "", true
	}
	var b strings.Builder
	for i, c := range groupBy {
		v := rec[c]
		if dataset.IsMissing(v) {
			return "", false
		}
		if i > 0 {
			b.WriteByte(0x1f)
		}
		if f, ok := dataset.ToFloat(v); ok {
			b.WriteString("n:")
			b.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
		} else {
			b.WriteString("s:")
			b.WriteString(dataset.FormatValue(v))
		}
	}
	return b.String(), true
}
