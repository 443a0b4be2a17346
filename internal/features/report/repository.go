package report

import (
	"context"
	"time"

	"deskwise/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ReportRepository runs aggregation pipelines against data source collections.
type ReportRepository interface {
	Aggregate(ctx context.Context, collection string, pipeline mongo.Pipeline) ([]map[string]any, error)
	Count(ctx context.Context, collection string, pipeline mongo.Pipeline) (int64, error)
}

type ReportRepositoryImpl struct {
	DB *mongo.Database
}

func NewReportRepository(db *database.MongodbDB) ReportRepository {
	return &ReportRepositoryImpl{DB: db.DB}
}

func (r *ReportRepositoryImpl) Aggregate(ctx context.Context, collection string, pipeline mongo.Pipeline) ([]map[string]any, error) {
	cursor, err := r.DB.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	rows := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		rows = append(rows, normalizeDocument(doc))
	}
	return rows, nil
}

// Count appends a $count stage to pipeline and returns the counted value.
func (r *ReportRepositoryImpl) Count(ctx context.Context, collection string, pipeline mongo.Pipeline) (int64, error) {
	countPipeline := make(mongo.Pipeline, 0, len(pipeline)+1)
	countPipeline = append(countPipeline, pipeline...)
	countPipeline = append(countPipeline, bson.D{{Key: "$count", Value: "total"}})

	cursor, err := r.DB.Collection(collection).Aggregate(ctx, countPipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var result []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return 0, err
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Total, nil
}

// normalizeDocument converts driver specific types into plain Go values so
// rows serialise cleanly to JSON and CSV.
func normalizeDocument(doc bson.M) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch x := v.(type) {
	case primitive.DateTime:
		return x.Time().UTC()
	case primitive.ObjectID:
		return x.Hex()
	case primitive.Timestamp:
		return time.Unix(int64(x.T), 0).UTC()
	case primitive.Decimal128:
		return x.String()
	case bson.M:
		return normalizeDocument(x)
	case bson.D:
		return normalizeDocument(x.Map())
	case bson.A:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}
