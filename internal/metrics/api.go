package metrics

import "github.com/gofiber/fiber/v2"

type MetricsApi struct {
	Metrics *Metrics
}

func NewMetricsApi(m *Metrics) *MetricsApi {
	return &MetricsApi{Metrics: m}
}

func (api *MetricsApi) Setup(app *fiber.App) {
	app.Get("/metrics", api.Metrics.Handler())
}
