package delivery

import (
	"fmt"
	"strconv"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/gofiber/fiber/v2"
)

var buckets = metrics.ExponentialBuckets(1e-3, 5, 6)

// MeterRequests считает запросы и их длительность по шаблону маршрута
func MeterRequests(set *metrics.Set) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
		}

		labels := fmt.Sprintf(`{method=%q,path=%q,status="%s"}`, c.Method(), c.Route().Path, strconv.Itoa(status))
		set.GetOrCreatePrometheusHistogramExt(`http_request_duration_seconds`+labels, buckets).UpdateDuration(start)
		set.GetOrCreateCounter(`http_requests_total` + labels).Inc()

		return err
	}
}

// MetricsHandler отдает метрики приложения и процесса в формате Prometheus
// GET /metrics
func MetricsHandler(set *metrics.Set) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "text/plain; version=0.0.4")
		w := c.Response().BodyWriter()
		set.WritePrometheus(w)
		metrics.WriteProcessMetrics(w)
		return nil
	}
}
