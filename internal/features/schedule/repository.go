package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"deskwise/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ScheduleRepository interface {
	Create(ctx context.Context, schedule *ReportSchedule) error
	GetByID(ctx context.Context, id string) (*ReportSchedule, error)
	List(ctx context.Context, orgID string) ([]ReportSchedule, error)
	Update(ctx context.Context, schedule *ReportSchedule, rescheduled bool) error
	Delete(ctx context.Context, id string) error
	GetDue(ctx context.Context, now time.Time) ([]ReportSchedule, error)

	// Lease operations
	Claim(ctx context.Context, id primitive.ObjectID, owner string, now time.Time, lease time.Duration) (*ReportSchedule, error)
	ClaimDue(ctx context.Context, id primitive.ObjectID, owner string, now time.Time, lease time.Duration) (*ReportSchedule, error)
	Release(ctx context.Context, id primitive.ObjectID, owner string) error
	RecordSuccess(ctx context.Context, id primitive.ObjectID, owner string, lastRun, nextRun time.Time) error

	// Execution log operations
	CreateExecution(ctx context.Context, execution *ScheduledReportExecution) error
	ListExecutions(ctx context.Context, scheduleID primitive.ObjectID, limit int64) ([]ScheduledReportExecution, error)

	EnsureIndexes(ctx context.Context) error
}

type ScheduleRepositoryImpl struct {
	collection          *mongo.Collection
	executionCollection *mongo.Collection
}

func NewScheduleRepository(db *database.MongodbDB) ScheduleRepository {
	return &ScheduleRepositoryImpl{
		collection:          db.DB.Collection("report_schedules"),
		executionCollection: db.DB.Collection("report_executions"),
	}
}

func (r *ScheduleRepositoryImpl) Create(ctx context.Context, schedule *ReportSchedule) error {
	schedule.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, schedule)
	return err
}

func (r *ScheduleRepositoryImpl) GetByID(ctx context.Context, id string) (*ReportSchedule, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrScheduleNotFound, id)
	}

	var schedule ReportSchedule
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&schedule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", ErrScheduleNotFound, id)
		}
		return nil, err
	}

	return &schedule, nil
}

func (r *ScheduleRepositoryImpl) List(ctx context.Context, orgID string) ([]ReportSchedule, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"org_id": orgID}, opts)
}

// Update writes the user editable fields, and next_run only when rescheduled
// is set. Run bookkeeping and lease fields are owned by the executor and never
// overwritten here.
func (r *ScheduleRepositoryImpl) Update(ctx context.Context, schedule *ReportSchedule, rescheduled bool) error {
	set := bson.M{
		"report_name":  schedule.ReportName,
		"enabled":      schedule.Enabled,
		"frequency":    schedule.Frequency,
		"day_of_week":  schedule.DayOfWeek,
		"day_of_month": schedule.DayOfMonth,
		"time":         schedule.Time,
		"timezone":     schedule.Timezone,
		"recipients":   schedule.Recipients,
		"formats":      schedule.Formats,
		"query":        schedule.Query,
		"updated_at":   schedule.UpdatedAt,
	}
	if rescheduled {
		set["next_run"] = schedule.NextRun
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": schedule.ID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", ErrScheduleNotFound, schedule.ID.Hex())
	}
	return nil
}

// Delete removes the schedule only. Its execution history is kept.
func (r *ScheduleRepositoryImpl) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrScheduleNotFound, id)
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", ErrScheduleNotFound, id)
	}
	return nil
}

func (r *ScheduleRepositoryImpl) GetDue(ctx context.Context, now time.Time) ([]ReportSchedule, error) {
	filter := bson.M{
		"enabled":  true,
		"next_run": bson.M{"$lte": now},
	}
	opts := options.Find().SetSort(bson.D{{Key: "next_run", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *ScheduleRepositoryImpl) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]ReportSchedule, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	schedules := []ReportSchedule{}
	if err = cursor.All(ctx, &schedules); err != nil {
		return nil, err
	}
	return schedules, nil
}

// leaseFree matches schedules nobody holds, or whose holder let the lease expire.
func leaseFree(now time.Time) bson.M {
	return bson.M{"$or": []bson.M{
		{"locked_until": bson.M{"$exists": false}},
		{"locked_until": nil},
		{"locked_until": bson.M{"$lte": now}},
	}}
}

// Claim takes the lease on a schedule in one conditional update. It returns
// ErrScheduleLocked while another owner holds an unexpired lease.
func (r *ScheduleRepositoryImpl) Claim(ctx context.Context, id primitive.ObjectID, owner string, now time.Time, lease time.Duration) (*ReportSchedule, error) {
	filter := bson.M{"_id": id}
	for k, v := range leaseFree(now) {
		filter[k] = v
	}
	return r.claim(ctx, filter, id, owner, now, lease, ErrScheduleLocked)
}

// ClaimDue is Claim for the sweep. The schedule must also still be enabled
// and due at now, so a run another sweeper finished after the due list was
// loaded is not repeated. Any miss returns ErrScheduleNotDue.
func (r *ScheduleRepositoryImpl) ClaimDue(ctx context.Context, id primitive.ObjectID, owner string, now time.Time, lease time.Duration) (*ReportSchedule, error) {
	filter := bson.M{
		"_id":      id,
		"enabled":  true,
		"next_run": bson.M{"$lte": now},
	}
	for k, v := range leaseFree(now) {
		filter[k] = v
	}
	return r.claim(ctx, filter, id, owner, now, lease, ErrScheduleNotDue)
}

func (r *ScheduleRepositoryImpl) claim(ctx context.Context, filter bson.M, id primitive.ObjectID, owner string, now time.Time, lease time.Duration, missErr error) (*ReportSchedule, error) {
	update := bson.M{"$set": bson.M{
		"locked_until": now.Add(lease),
		"locked_by":    owner,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var schedule ReportSchedule
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&schedule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", missErr, id.Hex())
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *ScheduleRepositoryImpl) Release(ctx context.Context, id primitive.ObjectID, owner string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "locked_by": owner},
		bson.M{"$unset": bson.M{"locked_until": "", "locked_by": ""}},
	)
	return err
}

// RecordSuccess advances the run bookkeeping and drops the lease together.
func (r *ScheduleRepositoryImpl) RecordSuccess(ctx context.Context, id primitive.ObjectID, owner string, lastRun, nextRun time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"last_run":   lastRun,
			"next_run":   nextRun,
			"updated_at": lastRun,
		},
		"$inc":   bson.M{"run_count": 1},
		"$unset": bson.M{"locked_until": "", "locked_by": ""},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "locked_by": owner}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("lease on schedule %s lost before completion", id.Hex())
	}
	return nil
}

func (r *ScheduleRepositoryImpl) CreateExecution(ctx context.Context, execution *ScheduledReportExecution) error {
	execution.ID = primitive.NewObjectID()
	_, err := r.executionCollection.InsertOne(ctx, execution)
	return err
}

func (r *ScheduleRepositoryImpl) ListExecutions(ctx context.Context, scheduleID primitive.ObjectID, limit int64) ([]ScheduledReportExecution, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "executed_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.executionCollection.Find(ctx, bson.M{"schedule_id": scheduleID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	executions := []ScheduledReportExecution{}
	if err = cursor.All(ctx, &executions); err != nil {
		return nil, err
	}
	return executions, nil
}

func (r *ScheduleRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "org_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "enabled", Value: 1}, {Key: "next_run", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("report_schedules indexes: %w", err)
	}

	_, err = r.executionCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "schedule_id", Value: 1}, {Key: "executed_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("report_executions indexes: %w", err)
	}
	return nil
}
