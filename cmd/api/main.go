package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "deskwise/internal/common/api"
	"deskwise/internal/config"
	"deskwise/internal/database"
	"deskwise/internal/features/audit"
	"deskwise/internal/features/export"
	"deskwise/internal/features/report"
	"deskwise/internal/features/schedule"
	"deskwise/internal/features/system"
	"deskwise/internal/logger"
	"deskwise/internal/metrics"
	"deskwise/internal/middleware"

	_ "deskwise/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(middleware.CORSMiddleware(cfg))

	return app
}

// AsRoute tags the constructor so Fx adds it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes calls Setup() on every route in the "routes" group.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route, log *zap.Logger) {
	log.Info("registering routes", zap.Int("count", len(routes)))
	for _, route := range routes {
		log.Debug("setting up route", zap.String("route", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`, ``),
)

// StartServer starts Fiber in a goroutine and shuts it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

// InitializeIndexes ensures that the schedule collections are indexed
func InitializeIndexes(lc fx.Lifecycle, scheduleRepo schedule.ScheduleRepository, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := scheduleRepo.EnsureIndexes(ctx); err != nil {
					log.Error("failed to ensure schedule indexes", zap.Error(err))
				}
			}()
			return nil
		},
	})
}

// StartScheduler runs the due-schedule sweep in-process unless disabled.
func StartScheduler(lc fx.Lifecycle, scheduler *schedule.Scheduler, cfg *config.Config, log *zap.Logger) {
	if !cfg.SchedulerEnabled {
		log.Info("report scheduler disabled")
		return
	}
	lc.Append(fx.Hook{
		OnStart: scheduler.InitializeScheduler,
		OnStop:  scheduler.StopScheduler,
	})
}

// @title           Deskwise Reports API
// @version         1.0
// @description     Ad-hoc report queries, exports and scheduled report delivery.

// @host            localhost:8080
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,
			metrics.NewMetrics,

			// Repositories
			audit.NewAuditRepository,
			report.NewReportRepository,
			schedule.NewScheduleRepository,

			// Services
			audit.NewAuditService,
			report.NewReportService,
			export.NewExportService,
			schedule.NewLogNotifier,
			schedule.NewScheduleService,
			schedule.NewScheduler,

			func(db *database.MongodbDB) system.Pinger { return db },

			// Controllers
			audit.NewAuditController,
			report.NewReportController,
			schedule.NewScheduleController,
			system.NewHealthController,

			// API Routes
			AsRoute(audit.NewAuditApi),
			AsRoute(report.NewReportApi),
			AsRoute(schedule.NewScheduleApi),
			AsRoute(metrics.NewMetricsApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			StartServer,
			InitializeIndexes,
			StartScheduler,
		),
	)

	app.Run()
}
