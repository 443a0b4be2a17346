package main

import (
	"context"
	"flag"

	"deskwise/internal/config"
	"deskwise/internal/database"
	"deskwise/internal/features/audit"
	"deskwise/internal/features/export"
	"deskwise/internal/features/report"
	"deskwise/internal/features/schedule"
	"deskwise/internal/logger"
	"deskwise/internal/metrics"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var scheduleID = flag.String("schedule", "", "execute only this schedule id")

// Sweep runs one pass over the due schedules, or the single schedule given
// with -schedule, then shuts the app down. The exit code is 1 when any run failed.
func Sweep(
	lc fx.Lifecycle,
	service schedule.ScheduleService,
	cfg *config.Config,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				code := 0
				defer func() {
					if err := shutdowner.Shutdown(fx.ExitCode(code)); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				ctx, cancel := context.WithTimeout(context.Background(), cfg.SchedulerSweepTimeout)
				defer cancel()

				if *scheduleID != "" {
					execution, err := service.ExecuteSchedule(ctx, *scheduleID)
					if err != nil {
						logger.Error("schedule execution failed", zap.String("schedule_id", *scheduleID), zap.Error(err))
						code = 1
						return
					}
					logger.Info("schedule executed",
						zap.String("schedule_id", *scheduleID),
						zap.Int("result_count", execution.ResultCount))
					return
				}

				result, err := service.RunDueSchedules(ctx)
				if err != nil {
					logger.Error("sweep failed", zap.Error(err))
					code = 1
					return
				}
				if result.Failed > 0 {
					code = 1
				}
			}()
			return nil
		},
	})
}

func main() {
	flag.Parse()

	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			metrics.NewMetrics,

			audit.NewAuditRepository,
			report.NewReportRepository,
			schedule.NewScheduleRepository,

			audit.NewAuditService,
			report.NewReportService,
			export.NewExportService,
			schedule.NewLogNotifier,
			schedule.NewScheduleService,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Sweep),
	)

	app.Run()
}
