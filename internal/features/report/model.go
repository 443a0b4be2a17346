package report

import (
	"time"
)

type DataSource string

const (
	DataSourceTickets         DataSource = "tickets"
	DataSourceIncidents       DataSource = "incidents"
	DataSourceAssets          DataSource = "assets"
	DataSourceProjects        DataSource = "projects"
	DataSourceChanges         DataSource = "changes"
	DataSourceServiceRequests DataSource = "service_requests"
)

type Operator string

const (
	OperatorEquals      Operator = "equals"
	OperatorNotEquals   Operator = "not_equals"
	OperatorContains    Operator = "contains"
	OperatorNotContains Operator = "not_contains"
	OperatorStartsWith  Operator = "starts_with"
	OperatorEndsWith    Operator = "ends_with"
	OperatorGreaterThan Operator = "greater_than"
	OperatorLessThan    Operator = "less_than"
	OperatorBetween     Operator = "between"
	OperatorIn          Operator = "in"
	OperatorNotIn       Operator = "not_in"
	OperatorIsEmpty     Operator = "is_empty"
	OperatorIsNotEmpty  Operator = "is_not_empty"
)

func (o Operator) Valid() bool {
	switch o {
	case OperatorEquals, OperatorNotEquals, OperatorContains, OperatorNotContains,
		OperatorStartsWith, OperatorEndsWith, OperatorGreaterThan, OperatorLessThan,
		OperatorBetween, OperatorIn, OperatorNotIn, OperatorIsEmpty, OperatorIsNotEmpty:
		return true
	}
	return false
}

// RequiresValue is false only for the emptiness checks.
func (o Operator) RequiresValue() bool {
	return o != OperatorIsEmpty && o != OperatorIsNotEmpty
}

type Conjunction string

const (
	ConjunctionAnd Conjunction = "AND"
	ConjunctionOr  Conjunction = "OR"
)

func (c Conjunction) Valid() bool {
	return c == "" || c == ConjunctionAnd || c == ConjunctionOr
}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// FilterRule is one predicate of a report query. Value is any JSON value:
// a scalar, a two element range for between or a list for in / not_in.
type FilterRule struct {
	Field       string      `json:"field" bson:"field"`
	Operator    Operator    `json:"operator" bson:"operator"`
	Value       any         `json:"value,omitempty" bson:"value,omitempty"`
	Conjunction Conjunction `json:"conjunction,omitempty" bson:"conjunction,omitempty"`
}

type OrderBy struct {
	Field     string        `json:"field" bson:"field"`
	Direction SortDirection `json:"direction" bson:"direction"`
}

// ReportQuery describes an ad-hoc report. Limit and Offset of zero mean unset.
type ReportQuery struct {
	DataSource DataSource   `json:"data_source" bson:"data_source"`
	Filters    []FilterRule `json:"filters" bson:"filters"`
	Columns    []string     `json:"columns" bson:"columns"`
	GroupBy    []string     `json:"group_by,omitempty" bson:"group_by,omitempty"`
	OrderBy    []OrderBy    `json:"order_by,omitempty" bson:"order_by,omitempty"`
	Limit      int64        `json:"limit,omitempty" bson:"limit,omitempty"`
	Offset     int64        `json:"offset,omitempty" bson:"offset,omitempty"`
}

type ReportResult struct {
	Data            []map[string]any `json:"data"`
	Total           int64            `json:"total"`
	Columns         []string         `json:"columns"`
	GeneratedAt     time.Time        `json:"generated_at"`
	ExecutionTimeMs int64            `json:"execution_time_ms"`
}

// FieldType drives operator choice in the builder UI and cell rendering on export.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeNumber  FieldType = "number"
	FieldTypeDate    FieldType = "date"
	FieldTypeBoolean FieldType = "boolean"
)

type Field struct {
	Name  string    `json:"name"`
	Label string    `json:"label"`
	Type  FieldType `json:"type"`
}

type DataSourceInfo struct {
	Name       DataSource `json:"name"`
	Label      string     `json:"label"`
	Collection string     `json:"collection"`
}
