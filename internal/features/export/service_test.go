package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedService() *ExportServiceImpl {
	return &ExportServiceImpl{Now: func() time.Time {
		return time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)
	}}
}

func boolPtr(b bool) *bool { return &b }

func TestExportCSVEscaping(t *testing.T) {
	svc := fixedService()
	data := []map[string]any{{"a": "x,y", "b": `he said "hi"`}}
	columns := []Column{{Key: "a", Label: "A"}, {Key: "b", Label: "B"}}

	res, err := svc.Export(data, columns, Options{Format: FormatCSV})
	require.NoError(t, err)

	assert.Equal(t, "A,B\n\"x,y\",\"he said \"\"hi\"\"\"", string(res.Data))
	assert.Equal(t, "text/csv", res.MimeType)
	assert.Equal(t, "export-2024-03-09.csv", res.Filename)
}

func TestExportCSVReadsBackWithStandardReader(t *testing.T) {
	svc := fixedService()
	data := []map[string]any{
		{"customer": "Acme, Inc.", "note": `27" monitor, "refurbished"`},
		{"customer": "Globex", "note": "line one\nline two"},
		{"customer": "Initech", "note": ""},
	}
	columns := []Column{{Key: "customer", Label: "Customer, Name"}, {Key: "note", Label: "Note"}}

	res, err := svc.Export(data, columns, Options{Format: FormatCSV})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(res.Data)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Customer, Name", "Note"},
		{"Acme, Inc.", `27" monitor, "refurbished"`},
		{"Globex", "line one\nline two"},
		{"Initech", ""},
	}, records)
}

func TestExportCSVWithoutHeaders(t *testing.T) {
	svc := fixedService()
	data := []map[string]any{{"a": "x,y", "b": `he said "hi"`}}
	columns := []Column{{Key: "a", Label: "A"}, {Key: "b", Label: "B"}}

	res, err := svc.Export(data, columns, Options{Format: FormatCSV, IncludeHeaders: boolPtr(false)})
	require.NoError(t, err)

	assert.Equal(t, "\"x,y\",\"he said \"\"hi\"\"\"", string(res.Data))
}

func TestExportCSVValueRendering(t *testing.T) {
	svc := fixedService()
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	data := []map[string]any{
		{"title": "line\nbreak", "count": 42, "ratio": 0.5, "created": created, "missing": nil, "ok": true},
		{"title": "plain"},
	}
	columns := []Column{
		{Key: "title", Label: "Title"},
		{Key: "count", Label: "Count"},
		{Key: "ratio", Label: "Ratio"},
		{Key: "created", Label: "Created"},
		{Key: "missing", Label: "Missing"},
		{Key: "ok", Label: "OK"},
	}

	res, err := svc.Export(data, columns, Options{Format: FormatCSV, IncludeHeaders: boolPtr(false)})
	require.NoError(t, err)

	lines := strings.Split(string(res.Data), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"line`, lines[0])
	assert.Equal(t, `break",42,0.5,2024-01-02T03:04:05.000Z,,true`, lines[1])
	assert.Equal(t, "plain,,,,,", lines[2])
}

func TestExportCSVFormatterOutputIsEscaped(t *testing.T) {
	svc := fixedService()
	columns := []Column{{
		Key:    "amount",
		Label:  "Amount",
		Format: func(v any) string { return "1,000" },
	}}

	res, err := svc.Export([]map[string]any{{"amount": 1000}, {}}, columns, Options{Format: FormatCSV})
	require.NoError(t, err)

	assert.Equal(t, "Amount\n\"1,000\"\n", string(res.Data))
}

func TestExportEmptyDataKeepsHeader(t *testing.T) {
	svc := fixedService()
	res, err := svc.Export(nil, []Column{{Key: "a", Label: "Name, Full"}}, Options{Format: FormatCSV, Filename: "out.csv"})
	require.NoError(t, err)

	assert.Equal(t, `"Name, Full"`, string(res.Data))
	assert.Equal(t, "out.csv", res.Filename)
}

func TestExportUnimplementedAndUnknownFormats(t *testing.T) {
	svc := fixedService()
	columns := []Column{{Key: "a", Label: "A"}}

	for _, f := range []Format{FormatExcel, FormatPDF} {
		res, err := svc.Export(nil, columns, Options{Format: f})
		assert.Nil(t, res)
		assert.True(t, errors.Is(err, ErrNotImplemented), "format %s", f)
	}

	_, err := svc.Export(nil, columns, Options{Format: "xml"})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEscapeCSV(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"", ""},
		{" padded ", " padded "},
		{"a,b", `"a,b"`},
		{`"`, `""""`},
		{"a\nb", "\"a\nb\""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeCSV(tt.in), "escapeCSV(%q)", tt.in)
	}
}
