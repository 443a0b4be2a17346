package report

import (
	"context"
	"fmt"
	"time"

	"deskwise/internal/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type ReportService interface {
	ExecuteQuery(ctx context.Context, orgID string, query ReportQuery) (*ReportResult, error)
	ValidateQuery(query ReportQuery) []string
	ValidateQueryStrict(query ReportQuery) []string
	AvailableFields(dataSource DataSource) ([]Field, error)
	DataSources() []DataSourceInfo
}

type ReportServiceImpl struct {
	Repo    ReportRepository
	Metrics *metrics.Metrics
	Logger  *zap.Logger
	Now     func() time.Time
}

func NewReportService(repo ReportRepository, m *metrics.Metrics, logger *zap.Logger) ReportService {
	return &ReportServiceImpl{
		Repo:    repo,
		Metrics: m,
		Logger:  logger.Named("report"),
		Now:     time.Now,
	}
}

// Pipeline is a compiled query: Base stops before pagination and feeds the
// total count, Data adds $skip and $limit.
type Pipeline struct {
	Collection string
	Base       mongo.Pipeline
	Data       mongo.Pipeline
}

// BuildPipeline compiles query for orgID without touching the database.
func BuildPipeline(orgID string, query ReportQuery) (*Pipeline, error) {
	collection, err := query.DataSource.Collection()
	if err != nil {
		return nil, err
	}

	filter, err := BuildFilterQuery(query.Filters)
	if err != nil {
		return nil, err
	}

	match := bson.M{TenantField: orgID}
	if len(filter) > 0 {
		match = bson.M{"$and": []bson.M{{TenantField: orgID}, filter}}
	}

	base := mongo.Pipeline{{{Key: "$match", Value: match}}}

	if len(query.GroupBy) > 0 {
		base = append(base, groupStages(query.GroupBy, query.Columns)...)
	} else if len(query.Columns) > 0 {
		base = append(base, projectStage(query.Columns))
	}

	if len(query.OrderBy) > 0 {
		sort := bson.D{}
		for _, o := range query.OrderBy {
			dir := 1
			if o.Direction == SortDesc {
				dir = -1
			}
			sort = append(sort, bson.E{Key: o.Field, Value: dir})
		}
		base = append(base, bson.D{{Key: "$sort", Value: sort}})
	}

	data := make(mongo.Pipeline, 0, len(base)+2)
	data = append(data, base...)
	if query.Offset > 0 {
		data = append(data, bson.D{{Key: "$skip", Value: query.Offset}})
	}
	if query.Limit > 0 {
		data = append(data, bson.D{{Key: "$limit", Value: query.Limit}})
	}

	return &Pipeline{Collection: collection, Base: base, Data: data}, nil
}

// groupStages groups on the groupBy fields, keeps the first value of every
// other column, counts members and lifts the group keys back to top level
// so rows keep the column shape used by sorting and export.
func groupStages(groupBy, columns []string) []bson.D {
	id := bson.D{}
	grouped := make(map[string]bool, len(groupBy))
	for _, f := range groupBy {
		id = append(id, bson.E{Key: f, Value: "$" + f})
		grouped[f] = true
	}

	group := bson.D{{Key: "_id", Value: id}}
	for _, col := range columns {
		if grouped[col] || col == "count" {
			continue
		}
		group = append(group, bson.E{Key: col, Value: bson.M{"$first": "$" + col}})
	}
	group = append(group, bson.E{Key: "count", Value: bson.M{"$sum": 1}})

	lift := bson.D{}
	for _, f := range groupBy {
		lift = append(lift, bson.E{Key: f, Value: "$_id." + f})
	}

	return []bson.D{
		{{Key: "$group", Value: group}},
		{{Key: "$addFields", Value: lift}},
	}
}

func projectStage(columns []string) bson.D {
	projection := bson.D{}
	keepID := false
	for _, col := range columns {
		if col == "_id" {
			keepID = true
		}
		projection = append(projection, bson.E{Key: col, Value: 1})
	}
	if !keepID {
		projection = append(projection, bson.E{Key: "_id", Value: 0})
	}
	return bson.D{{Key: "$project", Value: projection}}
}

func (s *ReportServiceImpl) ExecuteQuery(ctx context.Context, orgID string, query ReportQuery) (*ReportResult, error) {
	start := s.Now()

	result, err := s.executeQuery(ctx, orgID, query, start)
	elapsed := s.Now().Sub(start)
	if s.Metrics != nil {
		s.Metrics.ObserveQuery(string(query.DataSource), elapsed, err)
	}
	if err != nil {
		s.Logger.Warn("report query failed",
			zap.String("org_id", orgID),
			zap.String("data_source", string(query.DataSource)),
			zap.Error(err))
		return nil, err
	}

	s.Logger.Debug("report query executed",
		zap.String("org_id", orgID),
		zap.String("data_source", string(query.DataSource)),
		zap.Int64("total", result.Total),
		zap.Int64("execution_time_ms", result.ExecutionTimeMs))
	return result, nil
}

func (s *ReportServiceImpl) executeQuery(ctx context.Context, orgID string, query ReportQuery, start time.Time) (*ReportResult, error) {
	pipeline, err := BuildPipeline(orgID, query)
	if err != nil {
		return nil, err
	}

	var (
		total int64
		rows  []map[string]any
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.Repo.Count(gctx, pipeline.Collection, pipeline.Base)
		if err != nil {
			return fmt.Errorf("count %s: %w", pipeline.Collection, err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		docs, err := s.Repo.Aggregate(gctx, pipeline.Collection, pipeline.Data)
		if err != nil {
			return fmt.Errorf("aggregate %s: %w", pipeline.Collection, err)
		}
		rows = docs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []map[string]any{}
	}

	generatedAt := s.Now()
	return &ReportResult{
		Data:            rows,
		Total:           total,
		Columns:         query.Columns,
		GeneratedAt:     generatedAt,
		ExecutionTimeMs: generatedAt.Sub(start).Milliseconds(),
	}, nil
}

// ValidateQuery reports structural problems only. Field names are checked
// for presence, not against the catalogue.
func (s *ReportServiceImpl) ValidateQuery(query ReportQuery) []string {
	return validateQuery(query, false)
}

// ValidateQueryStrict also rejects fields missing from the data source catalogue.
func (s *ReportServiceImpl) ValidateQueryStrict(query ReportQuery) []string {
	return validateQuery(query, true)
}

func validateQuery(query ReportQuery, strict bool) []string {
	errs := []string{}

	knownSource := false
	switch {
	case query.DataSource == "":
		errs = append(errs, "Data source is required")
	case !query.DataSource.Valid():
		errs = append(errs, fmt.Sprintf("Unknown data source: %s", query.DataSource))
	default:
		knownSource = true
	}

	if len(query.Columns) == 0 {
		errs = append(errs, "At least one column must be selected")
	}

	for i, f := range query.Filters {
		n := i + 1
		if f.Field == "" {
			errs = append(errs, fmt.Sprintf("Filter %d: Field is required", n))
		}
		if f.Operator == "" {
			errs = append(errs, fmt.Sprintf("Filter %d: Operator is required", n))
		} else if !f.Operator.Valid() {
			errs = append(errs, fmt.Sprintf("Filter %d: Unknown operator %s", n, f.Operator))
		} else if f.Operator.RequiresValue() && isMissing(f.Value) {
			errs = append(errs, fmt.Sprintf("Filter %d: Value is required", n))
		}
		if !f.Conjunction.Valid() {
			errs = append(errs, fmt.Sprintf("Filter %d: Unknown conjunction %s", n, f.Conjunction))
		}
	}

	for i, o := range query.OrderBy {
		if o.Field == "" {
			errs = append(errs, fmt.Sprintf("Sort %d: Field is required", i+1))
		}
		if o.Direction != "" && o.Direction != SortAsc && o.Direction != SortDesc {
			errs = append(errs, fmt.Sprintf("Sort %d: Direction must be asc or desc", i+1))
		}
	}

	if query.Limit < 0 {
		errs = append(errs, "Limit must not be negative")
	}
	if query.Offset < 0 {
		errs = append(errs, "Offset must not be negative")
	}

	if strict && knownSource {
		check := func(kind, name string) {
			if name != "" && !query.DataSource.hasField(name) {
				errs = append(errs, fmt.Sprintf("Unknown %s field for %s: %s", kind, query.DataSource, name))
			}
		}
		for _, c := range query.Columns {
			check("column", c)
		}
		for _, f := range query.Filters {
			check("filter", f.Field)
		}
		for _, g := range query.GroupBy {
			check("group", g)
		}
		for _, o := range query.OrderBy {
			check("sort", o.Field)
		}
	}

	return errs
}

func isMissing(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func (s *ReportServiceImpl) AvailableFields(dataSource DataSource) ([]Field, error) {
	return dataSource.Fields()
}

func (s *ReportServiceImpl) DataSources() []DataSourceInfo {
	return listDataSources()
}
