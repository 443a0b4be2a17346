package export

import "fmt"

type metricLabel struct {
	key   string
	label string
}

var analyticsLabels = map[AnalyticsType][]metricLabel{
	AnalyticsTickets: {
		{"total", "Total Tickets"},
		{"open", "Open Tickets"},
		{"in_progress", "In Progress"},
		{"resolved", "Resolved Tickets"},
		{"closed", "Closed Tickets"},
		{"avg_resolution_time", "Avg Resolution Time (hours)"},
		{"avg_first_response_time", "Avg First Response Time (hours)"},
	},
	AnalyticsIncidents: {
		{"total", "Total Incidents"},
		{"active", "Active Incidents"},
		{"resolved", "Resolved Incidents"},
		{"critical", "Critical Incidents"},
		{"major", "Major Incidents"},
		{"mttr", "Mean Time To Resolve (hours)"},
	},
	AnalyticsAssets: {
		{"total", "Total Assets"},
		{"active", "Active Assets"},
		{"in_maintenance", "In Maintenance"},
		{"retired", "Retired Assets"},
		{"total_value", "Total Value"},
		{"warranty_expiring", "Warranty Expiring (30 days)"},
	},
	AnalyticsProjects: {
		{"total", "Total Projects"},
		{"active", "Active Projects"},
		{"completed", "Completed Projects"},
		{"on_hold", "On Hold"},
		{"total_budget", "Total Budget"},
		{"avg_progress", "Average Progress (%)"},
	},
	AnalyticsSLA: {
		{"compliance_rate", "SLA Compliance Rate (%)"},
		{"total_tracked", "Tracked Tickets"},
		{"met", "SLA Met"},
		{"breached", "SLA Breached"},
		{"at_risk", "At Risk"},
		{"avg_response_time", "Avg Response Time (hours)"},
	},
}

// AnalyticsColumns are the two columns every analytics export uses.
var AnalyticsColumns = []Column{
	{Key: "metric", Label: "Metric", Type: "string"},
	{Key: "value", Label: "Value"},
}

// FormatAnalyticsData maps a flat metrics object onto {metric, value} rows
// using the fixed label list of t. Missing metrics render as empty values.
func FormatAnalyticsData(metrics map[string]any, t AnalyticsType) ([]map[string]any, []Column, error) {
	labels, ok := analyticsLabels[t]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownAnalyticsType, t)
	}

	rows := make([]map[string]any, 0, len(labels))
	for _, l := range labels {
		rows = append(rows, map[string]any{
			"metric": l.label,
			"value":  metrics[l.key],
		})
	}
	return rows, AnalyticsColumns, nil
}
