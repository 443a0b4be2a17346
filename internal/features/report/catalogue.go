package report

import (
	"errors"
	"fmt"
)

// TenantField scopes every data source document to an organisation.
const TenantField = "org_id"

var ErrUnknownDataSource = errors.New("unknown data source")

type sourceDefinition struct {
	label      string
	collection string
	fields     []Field
}

var commonFields = []Field{
	{Name: "created_at", Label: "Created", Type: FieldTypeDate},
	{Name: "updated_at", Label: "Updated", Type: FieldTypeDate},
	{Name: "created_by", Label: "Created By", Type: FieldTypeString},
}

var dataSources = map[DataSource]sourceDefinition{
	DataSourceTickets: {
		label:      "Tickets",
		collection: "tickets",
		fields: []Field{
			{Name: "ticket_number", Label: "Ticket #", Type: FieldTypeString},
			{Name: "title", Label: "Title", Type: FieldTypeString},
			{Name: "status", Label: "Status", Type: FieldTypeString},
			{Name: "priority", Label: "Priority", Type: FieldTypeString},
			{Name: "category", Label: "Category", Type: FieldTypeString},
			{Name: "assigned_to", Label: "Assigned To", Type: FieldTypeString},
			{Name: "requester_id", Label: "Requester", Type: FieldTypeString},
			{Name: "sla_breached", Label: "SLA Breached", Type: FieldTypeBoolean},
			{Name: "resolved_at", Label: "Resolved", Type: FieldTypeDate},
			{Name: "time_spent", Label: "Time Spent (min)", Type: FieldTypeNumber},
		},
	},
	DataSourceIncidents: {
		label:      "Incidents",
		collection: "incidents",
		fields: []Field{
			{Name: "incident_number", Label: "Incident #", Type: FieldTypeString},
			{Name: "title", Label: "Title", Type: FieldTypeString},
			{Name: "status", Label: "Status", Type: FieldTypeString},
			{Name: "severity", Label: "Severity", Type: FieldTypeString},
			{Name: "impact", Label: "Impact", Type: FieldTypeString},
			{Name: "affected_services", Label: "Affected Services", Type: FieldTypeString},
			{Name: "is_public", Label: "Public", Type: FieldTypeBoolean},
			{Name: "started_at", Label: "Started", Type: FieldTypeDate},
			{Name: "resolved_at", Label: "Resolved", Type: FieldTypeDate},
		},
	},
	DataSourceAssets: {
		label:      "Assets",
		collection: "assets",
		fields: []Field{
			{Name: "asset_tag", Label: "Asset Tag", Type: FieldTypeString},
			{Name: "name", Label: "Name", Type: FieldTypeString},
			{Name: "category", Label: "Category", Type: FieldTypeString},
			{Name: "status", Label: "Status", Type: FieldTypeString},
			{Name: "manufacturer", Label: "Manufacturer", Type: FieldTypeString},
			{Name: "model", Label: "Model", Type: FieldTypeString},
			{Name: "serial_number", Label: "Serial #", Type: FieldTypeString},
			{Name: "assigned_to", Label: "Assigned To", Type: FieldTypeString},
			{Name: "location", Label: "Location", Type: FieldTypeString},
			{Name: "purchase_date", Label: "Purchase Date", Type: FieldTypeDate},
			{Name: "purchase_cost", Label: "Purchase Cost", Type: FieldTypeNumber},
			{Name: "warranty_expiry", Label: "Warranty Expiry", Type: FieldTypeDate},
		},
	},
	DataSourceProjects: {
		label:      "Projects",
		collection: "projects",
		fields: []Field{
			{Name: "project_number", Label: "Project #", Type: FieldTypeString},
			{Name: "name", Label: "Name", Type: FieldTypeString},
			{Name: "status", Label: "Status", Type: FieldTypeString},
			{Name: "owner_id", Label: "Owner", Type: FieldTypeString},
			{Name: "client_id", Label: "Client", Type: FieldTypeString},
			{Name: "start_date", Label: "Start Date", Type: FieldTypeDate},
			{Name: "end_date", Label: "End Date", Type: FieldTypeDate},
			{Name: "budget", Label: "Budget", Type: FieldTypeNumber},
			{Name: "progress", Label: "Progress (%)", Type: FieldTypeNumber},
		},
	},
	DataSourceChanges: {
		label:      "Changes",
		collection: "change_requests",
		fields: []Field{
			{Name: "change_number", Label: "Change #", Type: FieldTypeString},
			{Name: "title", Label: "Title", Type: FieldTypeString},
			{Name: "status", Label: "Status", Type: FieldTypeString},
			{Name: "risk", Label: "Risk", Type: FieldTypeString},
			{Name: "impact", Label: "Impact", Type: FieldTypeString},
			{Name: "category", Label: "Category", Type: FieldTypeString},
			{Name: "requested_by", Label: "Requested By", Type: FieldTypeString},
			{Name: "approved_by", Label: "Approved By", Type: FieldTypeString},
			{Name: "planned_start_date", Label: "Planned Start", Type: FieldTypeDate},
			{Name: "planned_end_date", Label: "Planned End", Type: FieldTypeDate},
		},
	},
	DataSourceServiceRequests: {
		label:      "Service Requests",
		collection: "service_requests",
		fields: []Field{
			{Name: "request_number", Label: "Request #", Type: FieldTypeString},
			{Name: "title", Label: "Title", Type: FieldTypeString},
			{Name: "status", Label: "Status", Type: FieldTypeString},
			{Name: "priority", Label: "Priority", Type: FieldTypeString},
			{Name: "service_id", Label: "Service", Type: FieldTypeString},
			{Name: "requested_by", Label: "Requested By", Type: FieldTypeString},
			{Name: "assigned_to", Label: "Assigned To", Type: FieldTypeString},
			{Name: "approval_status", Label: "Approval Status", Type: FieldTypeString},
			{Name: "completed_at", Label: "Completed", Type: FieldTypeDate},
		},
	},
}

// orderedSources fixes the listing order of the data source endpoint.
var orderedSources = []DataSource{
	DataSourceTickets,
	DataSourceIncidents,
	DataSourceAssets,
	DataSourceProjects,
	DataSourceChanges,
	DataSourceServiceRequests,
}

func (d DataSource) Valid() bool {
	_, ok := dataSources[d]
	return ok
}

// Collection resolves a data source to its backing collection.
func (d DataSource) Collection() (string, error) {
	def, ok := dataSources[d]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDataSource, d)
	}
	return def.collection, nil
}

// Fields returns the catalogue of d, domain fields first.
func (d DataSource) Fields() ([]Field, error) {
	def, ok := dataSources[d]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDataSource, d)
	}
	fields := make([]Field, 0, len(def.fields)+len(commonFields))
	fields = append(fields, def.fields...)
	fields = append(fields, commonFields...)
	return fields, nil
}

func (d DataSource) hasField(name string) bool {
	if name == "_id" || name == "count" {
		return true
	}
	fields, err := d.Fields()
	if err != nil {
		return false
	}
	for _, f := range fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

func listDataSources() []DataSourceInfo {
	out := make([]DataSourceInfo, 0, len(orderedSources))
	for _, ds := range orderedSources {
		def := dataSources[ds]
		out = append(out, DataSourceInfo{Name: ds, Label: def.label, Collection: def.collection})
	}
	return out
}
