package export

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"deskwise/internal/metrics"
)

const isoMillis = "2006-01-02T15:04:05.000Z"

type ExportService interface {
	Export(data []map[string]any, columns []Column, opts Options) (*ExportResult, error)
}

type ExportServiceImpl struct {
	Metrics *metrics.Metrics
	Now     func() time.Time
}

func NewExportService(m *metrics.Metrics) ExportService {
	return &ExportServiceImpl{Metrics: m, Now: time.Now}
}

func (s *ExportServiceImpl) Export(data []map[string]any, columns []Column, opts Options) (*ExportResult, error) {
	result, err := s.export(data, columns, opts)
	if s.Metrics != nil {
		s.Metrics.ObserveExport(string(opts.Format), err)
	}
	return result, err
}

func (s *ExportServiceImpl) export(data []map[string]any, columns []Column, opts Options) (*ExportResult, error) {
	filename := opts.Filename
	if filename == "" {
		filename = fmt.Sprintf("export-%s.%s", s.Now().Format("2006-01-02"), opts.Format)
	}

	switch opts.Format {
	case FormatCSV:
		return &ExportResult{
			Data:     []byte(renderCSV(data, columns, opts.headers())),
			MimeType: "text/csv",
			Filename: filename,
		}, nil
	case FormatExcel, FormatPDF:
		return nil, fmt.Errorf("%w: %s", ErrNotImplemented, opts.Format)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, opts.Format)
	}
}

// renderCSV joins lines with \n and writes no trailing newline.
func renderCSV(data []map[string]any, columns []Column, headers bool) string {
	lines := make([]string, 0, len(data)+1)

	if headers {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = escapeCSV(col.Label)
		}
		lines = append(lines, strings.Join(cells, ","))
	}

	for _, row := range data {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = renderCell(col, row[col.Key])
		}
		lines = append(lines, strings.Join(cells, ","))
	}

	return strings.Join(lines, "\n")
}

func renderCell(col Column, value any) string {
	if value == nil {
		return ""
	}
	if col.Format != nil {
		return escapeCSV(col.Format(value))
	}

	switch v := value.(type) {
	case string:
		return escapeCSV(v)
	case time.Time:
		return v.UTC().Format(isoMillis)
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.UTC().Format(isoMillis)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return escapeCSV(fmt.Sprint(v))
		}
		return escapeCSV(string(b))
	default:
		return escapeCSV(fmt.Sprint(v))
	}
}

// escapeCSV quotes a value containing a comma, a double quote or a newline
// and doubles embedded quotes. Other values pass through untouched.
func escapeCSV(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
