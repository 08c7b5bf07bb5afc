package stub

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var stubRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "routepick_stub_requests_total",
		Help: "Requests served by the contract stub",
	},
	[]string{"method", "route", "status"},
)

func init() {
	prometheus.MustRegister(stubRequests)
}

// countRequests labels by the matched route pattern, not the raw path.
func countRequests(c *fiber.Ctx) error {
	err := c.Next()
	status := c.Response().StatusCode()
	if err != nil {
		status, _, _ = classify(err)
	}
	stubRequests.WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).Inc()
	return err
}

func metricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
