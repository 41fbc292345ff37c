package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKeepsColumnOrder(t *testing.T) {
	ds, err := New([]string{"a", "b"}, []Record{
		{"a": int64(1), "b": int64(2)},
		{"a": int64(3), "b": int64(4)},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, ds.Columns())
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, int64(3), ds.Record(1)["a"])
}

func TestNewWithoutRecordsHasNoColumns(t *testing.T) {
	ds, err := New([]string{"a", "b"}, nil)
	require.NoError(t, err)

	assert.True(t, ds.IsEmpty())
	assert.Empty(t, ds.Columns())
}

func TestNewRejectsHeterogeneousRecords(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
	}{
		{"extra field", []Record{{"a": 1, "b": 2, "c": 3}}},
		{"missing field", []Record{{"a": 1}}},
		{"renamed field", []Record{{"a": 1, "b": 2}, {"a": 1, "x": 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New([]string{"a", "b"}, tt.records)
			assert.ErrorIs(t, err, ErrHeterogeneous)
		})
	}
}

func TestNewRejectsDuplicateColumns(t *testing.T) {
	_, err := New([]string{"a", "a"}, []Record{{"a": 1}})
	assert.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestCloneDoesNotShareRecords(t *testing.T) {
	ds := MustNew([]string{"a"}, []Record{{"a": int64(1)}})
	cp := ds.Clone()
	cp.records[0]["a"] = int64(99)

	assert.Equal(t, int64(1), ds.Record(0)["a"])
}

func TestColumn(t *testing.T) {
	ds := MustNew([]string{"a", "b"}, []Record{
		{"a": int64(1), "b": "x"},
		{"a": nil, "b": "y"},
	})

	values, ok := ds.Column("b")
	require.True(t, ok)
	assert.Equal(t, []interface{}{"x", "y"}, values)

	_, ok = ds.Column("zzz")
	assert.False(t, ok)
}

func TestRoles(t *testing.T) {
	ds := MustNew([]string{"species", "mass", "empty", "mixed"}, []Record{
		{"species": "Adelie", "mass": int64(3750), "empty": nil, "mixed": int64(1)},
		{"species": "Gentoo", "mass": 4.5, "empty": nil, "mixed": "two"},
		{"species": nil, "mass": nil, "empty": nil, "mixed": nil},
	})

	assert.Equal(t, []ColumnRole{
		{Name: "species", Role: Categorical},
		{Name: "mass", Role: Numeric},
		{Name: "empty", Role: Numeric},
		{Name: "mixed", Role: Categorical},
	}, Roles(ds))
	assert.Empty(t, Roles(Empty()))
}

func TestNamesWithRole(t *testing.T) {
	roles := []ColumnRole{{"a", Categorical}, {"b", Numeric}, {"c", Categorical}}
	assert.Equal(t, []string{"a", "c"}, NamesWithRole(roles, Categorical))
	assert.Equal(t, []string{"b"}, NamesWithRole(roles, Numeric))
}
