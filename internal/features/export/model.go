package export

import "errors"

var (
	ErrNotImplemented       = errors.New("export format not implemented")
	ErrUnsupportedFormat    = errors.New("unsupported export format")
	ErrUnknownAnalyticsType = errors.New("unknown analytics type")
)

type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
	FormatPDF   Format = "pdf"
)

// Column maps a row key to an output column. Format, when set, replaces the
// default rendering of non-nil values.
type Column struct {
	Key    string           `json:"key"`
	Label  string           `json:"label"`
	Type   string           `json:"type,omitempty"`
	Format func(any) string `json:"-"`
}

type Options struct {
	Format         Format `json:"format"`
	Filename       string `json:"filename,omitempty"`
	IncludeHeaders *bool  `json:"include_headers,omitempty"`
}

func (o Options) headers() bool {
	return o.IncludeHeaders == nil || *o.IncludeHeaders
}

type ExportResult struct {
	Data     []byte
	MimeType string
	Filename string
}

type AnalyticsType string

const (
	AnalyticsTickets   AnalyticsType = "tickets"
	AnalyticsIncidents AnalyticsType = "incidents"
	AnalyticsAssets    AnalyticsType = "assets"
	AnalyticsProjects  AnalyticsType = "projects"
	AnalyticsSLA       AnalyticsType = "sla"
)
