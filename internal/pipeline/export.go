package pipeline

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"go-csv-aggregator/internal/dataset"
)

// Download file names offered by the UI.
const (
	InputFilename  = "download-inp.csv"
	ResultFilename = "download-agg.csv"
)

// ExportResult is a rendered CSV file ready to be sent to the browser.
type ExportResult struct {
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	RecordCount int       `json:"record_count"`
	Data        []byte    `json:"-"`
	ExportedAt  time.Time `json:"exported_at"`
}

// ------------------- Export -------------------

// ExportCSV writes ds as CSV with a header row and no index column. An
// empty dataset writes nothing.
func ExportCSV(w io.Writer, ds dataset.Dataset) error {
	if ds.IsEmpty() {
		return nil
	}

	writer := csv.NewWriter(w)

	header := ds.Columns()
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(header))
	for i, rec := range ds.Records() {
		for j, c := range header {
			row[j] = dataset.FormatValue(rec[c])
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// Export renders ds into an in-memory CSV file named after filename.
func Export(ds dataset.Dataset, filename string) (ExportResult, error) {
	var buf bytes.Buffer
	if err := ExportCSV(&buf, ds); err != nil {
		return ExportResult{}, err
	}
	return ExportResult{
		Filename:    filepath.Base(filename),
		ContentType: "text/csv; charset=utf-8",
		RecordCount: ds.Len(),
		Data:        buf.Bytes(),
		ExportedAt:  time.Now().UTC(),
	}, nil
}
