package schedule

import (
	"context"

	"deskwise/internal/features/export"

	"go.uber.org/zap"
)

// Notifier hands finished report files to a schedule's recipients.
type Notifier interface {
	Deliver(ctx context.Context, schedule *ReportSchedule, files []*export.ExportResult) error
}

// LogNotifier only records what would have been sent. Mail delivery lives
// outside this service.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) Notifier {
	return &LogNotifier{logger: logger.Named("notifier")}
}

func (n *LogNotifier) Deliver(ctx context.Context, schedule *ReportSchedule, files []*export.ExportResult) error {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Filename)
	}
	n.logger.Info("scheduled report ready for delivery",
		zap.String("org_id", schedule.OrgID),
		zap.String("schedule_id", schedule.ID.Hex()),
		zap.Int("recipients", len(schedule.Recipients)),
		zap.Strings("files", names))
	return nil
}
