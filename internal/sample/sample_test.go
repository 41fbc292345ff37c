package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-csv-aggregator/internal/dataset"
)

func TestPenguins(t *testing.T) {
	ds, err := Penguins()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"species", "island", "bill_length_mm", "bill_depth_mm",
		"flipper_length_mm", "body_mass_g", "sex", "year",
	}, ds.Columns())
	assert.Equal(t, 55, ds.Len())

	roles := dataset.Roles(ds)
	assert.Equal(t, []string{"species", "island", "sex"}, dataset.NamesWithRole(roles, dataset.Categorical))
	assert.Equal(t, []string{"bill_length_mm", "bill_depth_mm", "flipper_length_mm", "body_mass_g", "year"},
		dataset.NamesWithRole(roles, dataset.Numeric))
}
