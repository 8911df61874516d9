package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "implantstock_redis_errors_total",
		Help: "Total number of failed Redis commands",
	}, []string{"command"})

	// ActiveWebSockets is the number of open stock alert sockets.
	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "implantstock_active_websockets",
		Help: "Number of open stock alert WebSocket connections",
	})

	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics returns the process-wide HTTP metrics collector. The collectors
// are registered with the default registry once, so repeated calls are safe.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}

// MetricsMiddleware records request counts and latencies, skipping the scrape
// endpoint itself.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	handler := p.Middleware
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}
		return handler(c)
	}
}
