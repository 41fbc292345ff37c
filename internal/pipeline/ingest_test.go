package pipeline

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-csv-aggregator/internal/dataset"
)

func dataURL(body []byte) string {
	return "data:text/csv;base64," + base64.StdEncoding.EncodeToString(body)
}

func TestIngestUploadFromDataURL(t *testing.T) {
	csv := "species,island,body_mass_g\nAdelie,Torgersen,3750\nGentoo,Biscoe,NA\n"

	ds, err := IngestUpload(Upload{Filename: "p.csv", Contents: dataURL([]byte(csv))})
	require.NoError(t, err)

	assert.Equal(t, []string{"species", "island", "body_mass_g"}, ds.Columns())
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, dataset.Record{"species": "Adelie", "island": "Torgersen", "body_mass_g": int64(3750)}, ds.Record(0))
	assert.Nil(t, ds.Record(1)["body_mass_g"])
}

func TestIngestUploadPrefersRaw(t *testing.T) {
	ds, err := IngestUpload(Upload{Raw: []byte("a\n1\n"), Contents: "garbage"})
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
}

func TestIngestUploadFailuresYieldEmptyDataset(t *testing.T) {
	tests := []struct {
		name    string
		upload  Upload
		wantErr error
	}{
		{"no comma", Upload{Contents: "data:text/csv;base64"}, ErrMalformedPayload},
		{"not base64 prefix", Upload{Contents: "data:text/csv,a,b"}, ErrMalformedPayload},
		{"bad base64", Upload{Contents: "data:text/csv;base64,@@@"}, ErrInvalidEncoding},
		{"binary bytes", Upload{Contents: dataURL([]byte{0xff, 0xfe, 0x00, 0x81})}, ErrInvalidUTF8},
		{"empty file", Upload{Raw: []byte{}}, ErrMalformedCSV},
		{"row wider than header", Upload{Raw: []byte("a,b\n1,2,3\n")}, ErrMalformedCSV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := IngestUpload(tt.upload)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, ds.IsEmpty())
			assert.Empty(t, ds.Columns())
		})
	}
}

func TestParseCSVHeaders(t *testing.T) {
	ds, err := ParseCSV(strings.NewReader("\xEF\xBB\xBF a ,\"b\",,a\n1,2,3,4\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "Unnamed: 2", "a.1"}, ds.Columns())
}

func TestParseCSVPadsShortRows(t *testing.T) {
	ds, err := ParseCSV(strings.NewReader("a,b,c\n1\n"))
	require.NoError(t, err)
	assert.Equal(t, dataset.Record{"a": int64(1), "b": nil, "c": nil}, ds.Record(0))
}

func TestParseCSVHeaderOnly(t *testing.T) {
	ds, err := ParseCSV(strings.NewReader("a,b\n"))
	require.NoError(t, err)
	assert.True(t, ds.IsEmpty())
}

func TestIngestExportRoundTrip(t *testing.T) {
	csv := "species,mass,ratio,note\n" +
		"Adelie,3750,0.5,\"quoted, text\"\n" +
		"Gentoo,,2.0,plain\n" +
		"Chinstrap,4000,1.25,NA\n"

	first, err := IngestUpload(Upload{Raw: []byte(csv)})
	require.NoError(t, err)

	exported, err := Export(first, InputFilename)
	require.NoError(t, err)

	second, err := IngestUpload(Upload{Contents: dataURL(exported.Data)})
	require.NoError(t, err)

	assert.Equal(t, first.Columns(), second.Columns())
	assert.Equal(t, first.Records(), second.Records())
}
