// Package sample bundles the default dataset shown before any upload.
package sample

import (
	"bytes"
	_ "embed"
	"fmt"

	"go-csv-aggregator/internal/dataset"
	"go-csv-aggregator/internal/pipeline"
)

//go:embed penguins.csv
var penguinsCSV []byte

// Penguins parses the bundled Palmer penguins sample.
func Penguins() (dataset.Dataset, error) {
	ds, err := pipeline.ParseCSV(bytes.NewReader(penguinsCSV))
	if err != nil {
		return dataset.Empty(), fmt.Errorf("parse bundled penguins sample: %w", err)
	}
	return ds, nil
}
