package web

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderIndex(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, Page{Title: "CSV Aggregator", PageSize: 10, Functions: []string{"mean", "min", "max"}})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "<title>CSV Aggregator</title>")
	assert.Contains(t, html, `value="mean"`)
	assert.Contains(t, html, `value="max"`)
	assert.Regexp(t, `const pageSize = \s*10\s*;`, html)
	assert.Contains(t, html, "Input data")
	assert.Contains(t, html, "Aggregated data")
}
