package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	common_models "deskwise/internal/common/models"
	"deskwise/internal/config"
	"deskwise/internal/features/audit"
	"deskwise/internal/features/export"
	"deskwise/internal/features/report"
	"deskwise/internal/metrics"
	"deskwise/pkg/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
	auditModule         = "report_schedules"
)

type ScheduleService interface {
	CreateSchedule(ctx context.Context, schedule *ReportSchedule) error
	GetSchedule(ctx context.Context, orgID, id string) (*ReportSchedule, error)
	ListSchedules(ctx context.Context, orgID string) ([]ReportSchedule, error)
	UpdateSchedule(ctx context.Context, orgID, id string, patch SchedulePatch) (*ReportSchedule, error)
	DeleteSchedule(ctx context.Context, orgID, id string) error
	GetDueSchedules(ctx context.Context) ([]ReportSchedule, error)
	ExecuteSchedule(ctx context.Context, id string) (*ScheduledReportExecution, error)
	GetExecutionHistory(ctx context.Context, orgID, id string, limit int64) ([]ScheduledReportExecution, error)
	RunDueSchedules(ctx context.Context) (*SweepResult, error)
}

type ScheduleServiceImpl struct {
	repo     ScheduleRepository
	reports  report.ReportService
	exporter export.ExportService
	notifier Notifier
	audit    audit.AuditService
	metrics  *metrics.Metrics
	logger   *zap.Logger

	lease      time.Duration
	instanceID string
	now        func() time.Time
}

func NewScheduleService(
	repo ScheduleRepository,
	reports report.ReportService,
	exporter export.ExportService,
	notifier Notifier,
	auditService audit.AuditService,
	m *metrics.Metrics,
	logger *zap.Logger,
	cfg *config.Config,
) ScheduleService {
	return &ScheduleServiceImpl{
		repo:       repo,
		reports:    reports,
		exporter:   exporter,
		notifier:   notifier,
		audit:      auditService,
		metrics:    m,
		logger:     logger.Named("schedule"),
		lease:      cfg.ScheduleLeaseDuration,
		instanceID: uuid.NewString(),
		now:        time.Now,
	}
}

func (s *ScheduleServiceImpl) CreateSchedule(ctx context.Context, schedule *ReportSchedule) error {
	if err := validateSchedule(schedule, s.reports); err != nil {
		return err
	}

	now := s.now().UTC()
	schedule.RunCount = 0
	schedule.LastRun = nil
	schedule.LockedUntil = nil
	schedule.LockedBy = ""
	schedule.NextRun = CalculateNextRun(schedule, now).UTC()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now
	if schedule.CreatedBy == "" {
		schedule.CreatedBy = common_models.ActorFromContext(ctx)
	}

	if err := s.repo.Create(ctx, schedule); err != nil {
		return err
	}

	s.logAudit(ctx, common_models.AuditActionCreate, schedule.ID.Hex(), map[string]common_models.Change{
		"schedule": {New: schedule},
	})
	return nil
}

// GetSchedule hides schedules of other organisations behind ErrScheduleNotFound.
func (s *ScheduleServiceImpl) GetSchedule(ctx context.Context, orgID, id string) (*ReportSchedule, error) {
	schedule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if orgID != "" && schedule.OrgID != orgID {
		return nil, fmt.Errorf("%w: %s", ErrScheduleNotFound, id)
	}
	return schedule, nil
}

func (s *ScheduleServiceImpl) ListSchedules(ctx context.Context, orgID string) ([]ReportSchedule, error) {
	return s.repo.List(ctx, orgID)
}

func (s *ScheduleServiceImpl) UpdateSchedule(ctx context.Context, orgID, id string, patch SchedulePatch) (*ReportSchedule, error) {
	existing, err := s.GetSchedule(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	applyPatch(&updated, patch)
	if err := validateSchedule(&updated, s.reports); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if patch.affectsTiming() {
		updated.NextRun = CalculateNextRun(&updated, now).UTC()
	}
	updated.UpdatedAt = now

	if err := s.repo.Update(ctx, &updated, patch.affectsTiming()); err != nil {
		return nil, err
	}

	s.logAudit(ctx, common_models.AuditActionUpdate, id, diffSchedules(existing, &updated))
	return &updated, nil
}

func applyPatch(schedule *ReportSchedule, patch SchedulePatch) {
	if patch.ReportName != nil {
		schedule.ReportName = *patch.ReportName
	}
	if patch.Enabled != nil {
		schedule.Enabled = *patch.Enabled
	}
	if patch.Frequency != nil {
		schedule.Frequency = *patch.Frequency
	}
	if patch.DayOfWeek != nil {
		schedule.DayOfWeek = patch.DayOfWeek
	}
	if patch.DayOfMonth != nil {
		schedule.DayOfMonth = patch.DayOfMonth
	}
	if patch.Time != nil {
		schedule.Time = *patch.Time
	}
	if patch.Timezone != nil {
		schedule.Timezone = *patch.Timezone
	}
	if patch.Recipients != nil {
		schedule.Recipients = *patch.Recipients
	}
	if patch.Formats != nil {
		schedule.Formats = *patch.Formats
	}
	if patch.Query != nil {
		schedule.Query = *patch.Query
	}
}

func diffSchedules(old, updated *ReportSchedule) map[string]common_models.Change {
	changes := map[string]common_models.Change{}
	if old.ReportName != updated.ReportName {
		changes["report_name"] = common_models.Change{Old: old.ReportName, New: updated.ReportName}
	}
	if old.Enabled != updated.Enabled {
		changes["enabled"] = common_models.Change{Old: old.Enabled, New: updated.Enabled}
	}
	if old.Frequency != updated.Frequency {
		changes["frequency"] = common_models.Change{Old: old.Frequency, New: updated.Frequency}
	}
	if old.Time != updated.Time {
		changes["time"] = common_models.Change{Old: old.Time, New: updated.Time}
	}
	if !old.NextRun.Equal(updated.NextRun) {
		changes["next_run"] = common_models.Change{Old: old.NextRun, New: updated.NextRun}
	}
	return changes
}

func (s *ScheduleServiceImpl) DeleteSchedule(ctx context.Context, orgID, id string) error {
	existing, err := s.GetSchedule(ctx, orgID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logAudit(ctx, common_models.AuditActionDelete, id, map[string]common_models.Change{
		"schedule": {Old: existing, New: "DELETED"},
	})
	return nil
}

func (s *ScheduleServiceImpl) GetDueSchedules(ctx context.Context) ([]ReportSchedule, error) {
	return s.repo.GetDue(ctx, s.now().UTC())
}

func (s *ScheduleServiceImpl) GetExecutionHistory(ctx context.Context, orgID, id string, limit int64) ([]ScheduledReportExecution, error) {
	schedule, err := s.GetSchedule(ctx, orgID, id)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.repo.ListExecutions(ctx, schedule.ID, limit)
}

// claimFunc takes the lease on a schedule. Claim serves manual runs and
// ClaimDue serves the sweep.
type claimFunc func(ctx context.Context, id primitive.ObjectID, owner string, now time.Time, lease time.Duration) (*ReportSchedule, error)

// ExecuteSchedule runs one schedule under a lease, whether or not it is due.
// Every attempt that gets past the lease leaves exactly one execution row. A
// failed run keeps last_run, next_run and run_count as they were so the next
// sweep retries it.
func (s *ScheduleServiceImpl) ExecuteSchedule(ctx context.Context, id string) (*ScheduledReportExecution, error) {
	return s.execute(ctx, id, s.repo.Claim)
}

func (s *ScheduleServiceImpl) execute(ctx context.Context, id string, claim claimFunc) (*ScheduledReportExecution, error) {
	schedule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ctx = context.WithValue(ctx, common_models.TenantIDKey, schedule.OrgID)

	start := s.now().UTC()
	claimed, err := claim(ctx, schedule.ID, s.instanceID, start, s.lease)
	if err != nil {
		return nil, err
	}

	log := s.logger.With(
		zap.String("org_id", claimed.OrgID),
		zap.String("schedule_id", claimed.ID.Hex()))

	resultCount, runErr := s.run(ctx, claimed, start)

	finished := s.now().UTC()
	execution := &ScheduledReportExecution{
		ScheduleID:      claimed.ID,
		OrgID:           claimed.OrgID,
		ReportName:      claimed.ReportName,
		ExecutedAt:      start,
		ExecutionTimeMs: finished.Sub(start).Milliseconds(),
	}
	if runErr != nil {
		return s.fail(ctx, log, claimed, execution, runErr)
	}

	base := finished
	if claimed.NextRun.After(base) {
		base = claimed.NextRun
	}
	nextRun := CalculateNextRun(claimed, base).UTC()
	if err := s.repo.RecordSuccess(ctx, claimed.ID, s.instanceID, start, nextRun); err != nil {
		return s.fail(ctx, log, claimed, execution, fmt.Errorf("advance schedule: %w", err))
	}

	execution.Status = ExecutionSuccess
	execution.RecipientCount = len(claimed.Recipients)
	execution.ResultCount = resultCount
	if err := s.repo.CreateExecution(ctx, execution); err != nil {
		log.Error("failed to record successful execution", zap.Error(err))
	}

	s.observe(execution, nil)
	s.logAudit(ctx, common_models.AuditActionSchedule, claimed.ID.Hex(), map[string]common_models.Change{
		"status":   {New: execution.Status},
		"next_run": {Old: claimed.NextRun, New: nextRun},
	})
	log.Info("scheduled report executed",
		zap.Int("result_count", execution.ResultCount),
		zap.Int("recipients", execution.RecipientCount),
		zap.Time("next_run", nextRun))
	return execution, nil
}

// fail writes the failed execution row and releases the lease. The schedule
// document itself is left alone.
func (s *ScheduleServiceImpl) fail(ctx context.Context, log *zap.Logger, schedule *ReportSchedule, execution *ScheduledReportExecution, runErr error) (*ScheduledReportExecution, error) {
	execution.Status = ExecutionFailed
	execution.Error = runErr.Error()
	execution.RecipientCount = 0
	execution.ResultCount = 0

	if err := s.repo.CreateExecution(ctx, execution); err != nil {
		log.Error("failed to record failed execution", zap.Error(err))
	}
	if err := s.repo.Release(ctx, schedule.ID, s.instanceID); err != nil {
		log.Error("failed to release schedule lease", zap.Error(err))
	}

	s.observe(execution, runErr)
	s.logAudit(ctx, common_models.AuditActionSchedule, schedule.ID.Hex(), map[string]common_models.Change{
		"status": {New: execution.Status},
		"error":  {New: execution.Error},
	})
	log.Error("scheduled report failed", zap.Error(runErr))
	return execution, fmt.Errorf("execute schedule %s: %w", schedule.ID.Hex(), runErr)
}

// run executes the query, renders every requested format and hands the
// files to the notifier. It returns the number of result rows.
func (s *ScheduleServiceImpl) run(ctx context.Context, schedule *ReportSchedule, start time.Time) (int, error) {
	result, err := s.reports.ExecuteQuery(ctx, schedule.OrgID, schedule.Query)
	if err != nil {
		return 0, err
	}

	columns := make([]export.Column, 0, len(schedule.Query.Columns))
	for _, c := range schedule.Query.Columns {
		columns = append(columns, export.Column{Key: c, Label: c, Type: "string"})
	}

	files := make([]*export.ExportResult, 0, len(schedule.Formats))
	for _, format := range schedule.Formats {
		file, err := s.exporter.Export(result.Data, columns, export.Options{
			Format:   format,
			Filename: exportFilename(schedule.ReportName, start, format),
		})
		if err != nil {
			return 0, fmt.Errorf("export %s: %w", format, err)
		}
		files = append(files, file)
	}

	if err := s.notifier.Deliver(ctx, schedule, files); err != nil {
		return 0, fmt.Errorf("deliver: %w", err)
	}
	return len(result.Data), nil
}

func exportFilename(name string, at time.Time, format export.Format) string {
	return fmt.Sprintf("%s-%s.%s", utils.Slugify(name, "report"), at.Format("2006-01-02"), format)
}

// RunDueSchedules executes every due schedule independently. Individual
// failures are logged and counted, never returned.
func (s *ScheduleServiceImpl) RunDueSchedules(ctx context.Context) (*SweepResult, error) {
	due, err := s.GetDueSchedules(ctx)
	if err != nil {
		return nil, fmt.Errorf("load due schedules: %w", err)
	}
	if s.metrics != nil {
		s.metrics.SetDueSchedules(len(due))
	}
	return s.runDue(ctx, due), nil
}

// runDue works through a due list that may be stale by the time each entry
// is reached. Entries another worker already ran, disabled or holds are
// skipped.
func (s *ScheduleServiceImpl) runDue(ctx context.Context, due []ReportSchedule) *SweepResult {
	log := s.logger.With(zap.String("sweep_id", uuid.NewString()))
	result := &SweepResult{Due: len(due)}
	for i := range due {
		if ctx.Err() != nil {
			result.Skipped += len(due) - i
			break
		}
		id := due[i].ID.Hex()
		_, err := s.execute(ctx, id, s.repo.ClaimDue)
		switch {
		case err == nil:
			result.Succeeded++
		case errors.Is(err, ErrScheduleNotDue), errors.Is(err, ErrScheduleLocked), errors.Is(err, ErrScheduleNotFound):
			result.Skipped++
			log.Debug("due schedule skipped", zap.String("schedule_id", id), zap.Error(err))
		default:
			result.Failed++
			log.Warn("due schedule failed", zap.String("schedule_id", id), zap.Error(err))
		}
	}

	if result.Due > 0 {
		log.Info("schedule sweep finished",
			zap.Int("due", result.Due),
			zap.Int("succeeded", result.Succeeded),
			zap.Int("failed", result.Failed),
			zap.Int("skipped", result.Skipped))
	}
	return result
}

func (s *ScheduleServiceImpl) observe(execution *ScheduledReportExecution, err error) {
	if s.metrics != nil {
		s.metrics.ObserveExecution(time.Duration(execution.ExecutionTimeMs)*time.Millisecond, err)
	}
}

func (s *ScheduleServiceImpl) logAudit(ctx context.Context, action common_models.AuditAction, recordID string, changes map[string]common_models.Change) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogChange(ctx, action, auditModule, recordID, changes); err != nil {
		s.logger.Warn("audit log write failed", zap.String("schedule_id", recordID), zap.Error(err))
	}
}
