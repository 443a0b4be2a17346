package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAnalyticsData(t *testing.T) {
	rows, columns, err := FormatAnalyticsData(map[string]any{"total": 12, "open": 5}, AnalyticsTickets)
	require.NoError(t, err)

	require.Len(t, columns, 2)
	assert.Equal(t, "Metric", columns[0].Label)
	assert.Equal(t, "Value", columns[1].Label)

	require.NotEmpty(t, rows)
	assert.Equal(t, map[string]any{"metric": "Total Tickets", "value": 12}, rows[0])
	assert.Equal(t, map[string]any{"metric": "Open Tickets", "value": 5}, rows[1])
	assert.Nil(t, rows[2]["value"])
}

func TestFormatAnalyticsDataEveryType(t *testing.T) {
	for _, typ := range []AnalyticsType{AnalyticsTickets, AnalyticsIncidents, AnalyticsAssets, AnalyticsProjects, AnalyticsSLA} {
		rows, _, err := FormatAnalyticsData(map[string]any{}, typ)
		require.NoError(t, err, typ)
		assert.NotEmpty(t, rows, typ)
	}
}

func TestFormatAnalyticsDataUnknownType(t *testing.T) {
	_, _, err := FormatAnalyticsData(nil, "billing")
	assert.ErrorIs(t, err, ErrUnknownAnalyticsType)
}

func TestAnalyticsRowsExportAsCSV(t *testing.T) {
	rows, columns, err := FormatAnalyticsData(map[string]any{"compliance_rate": 97.5}, AnalyticsSLA)
	require.NoError(t, err)

	res, err := fixedService().Export(rows[:1], columns, Options{Format: FormatCSV})
	require.NoError(t, err)
	assert.Equal(t, "Metric,Value\nSLA Compliance Rate (%),97.5", string(res.Data))
}
