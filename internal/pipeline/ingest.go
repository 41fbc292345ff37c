package pipeline

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"go-csv-aggregator/internal/dataset"
)

// Upload is a file handed over by the browser. Contents holds the data
// URL produced by the upload widget; Raw holds bytes already read from a
// multipart form and takes precedence when set.
type Upload struct {
	Filename string
	Contents string
	Raw      []byte
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ------------------- Ingestion -------------------

// IngestUpload runs the decode chain for an upload and returns the parsed
// dataset. On any failure the returned dataset is empty and the error
// says which step failed.
func IngestUpload(u Upload) (dataset.Dataset, error) {
	data := u.Raw
	if data == nil {
		decoded, err := DecodeDataURL(u.Contents)
		if err != nil {
			return dataset.Empty(), err
		}
		data = decoded
	}

	if !utf8.Valid(data) {
		return dataset.Empty(), ErrInvalidUTF8
	}

	ds, err := ParseCSV(bytes.NewReader(data))
	if err != nil {
		return dataset.Empty(), err
	}
	return ds, nil
}

// DecodeDataURL splits "data:<media-type>;base64,<body>" and decodes the body.
func DecodeDataURL(contents string) ([]byte, error) {
	prefix, body, ok := strings.Cut(contents, ",")
	if !ok || !strings.HasPrefix(prefix, "data:") || !strings.HasSuffix(prefix, ";base64") {
		return nil, ErrMalformedPayload
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return decoded, nil
}

// ------------------- CSV Parsing -------------------

// ParseCSV reads a header row followed by data rows. Short rows are padded
// with missing values; rows wider than the header are rejected.
func ParseCSV(r io.Reader) (dataset.Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return dataset.Empty(), fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	csvReader := csv.NewReader(bytes.NewReader(raw))
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	headers, err := csvReader.Read()
	if err == io.EOF {
		return dataset.Empty(), fmt.Errorf("%w: no header row", ErrMalformedCSV)
	} else if err != nil {
		return dataset.Empty(), fmt.Errorf("%w: header: %v", ErrMalformedCSV, err)
	}
	columns := normalizeHeaders(headers)

	var records []dataset.Record
	for line := 2; ; line++ {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return dataset.Empty(), fmt.Errorf("%w: %v", ErrMalformedCSV, err)
		}
		if len(row) > len(columns) {
			return dataset.Empty(), fmt.Errorf("%w: row %d has %d fields, header has %d", ErrMalformedCSV, line, len(row), len(columns))
		}

		rec := make(dataset.Record, len(columns))
		for i, c := range columns {
			if i < len(row) {
				rec[c] = dataset.ParseValue(row[i])
			} else {
				rec[c] = nil
			}
		}
		records = append(records, rec)
	}

	return dataset.New(columns, records)
}

// normalizeHeaders trims names, strips quotes, names blank headers after
// their position and suffixes repeats with ".1", ".2", ...
func normalizeHeaders(headers []string) []string {
	columns := make([]string, len(headers))
	used := make(map[string]bool, len(headers))

	for i, h := range headers {
		name := strings.TrimSpace(h)
		name = strings.ReplaceAll(name, `"`, "")
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}

		candidate := name
		for n := 1; used[candidate]; n++ {
			candidate = name + "." + strconv.Itoa(n)
		}
		used[candidate] = true
		columns[i] = candidate
	}
	return columns
}
