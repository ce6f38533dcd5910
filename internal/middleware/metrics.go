// Package middleware provides HTTP middleware: logging, metrics, rate
// limiting and tracing.
package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ProviderRequests counts outbound calls to AI/payment providers by outcome.
var ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "genie_provider_requests_total",
	Help: "Outbound provider API calls",
}, []string{"provider", "outcome"})

// LedgerOps counts credit ledger operations by type.
var LedgerOps = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "genie_ledger_operations_total",
	Help: "Credit ledger operations",
}, []string{"op"})

// RedisErrors counts failed Redis commands by command name.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "genie_redis_errors_total",
	Help: "Redis command errors",
}, []string{"command"})

// InitMetrics creates the request-level Prometheus middleware for the service.
func InitMetrics(service string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(service)
}

// MetricsMiddleware returns the Fiber handler recording per-request metrics.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
