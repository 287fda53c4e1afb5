package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/idempotency"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gookit/slog"
)

// IdempotencyKeyHeader carries a caller chosen UUID. A repeated request with
// the same key gets the stored response instead of reaching the device again.
const IdempotencyKeyHeader = "X-Idempotency-Key"

// DefaultIdempotencyLifetime is how long a stored response is replayed.
const DefaultIdempotencyLifetime = 30 * time.Minute

// ProfilingPrefix is the path prefix of the pprof endpoints.
const ProfilingPrefix = "/api/v1"

// BasicMiddlewareGroupConfig defines configuration options for building the middleware group.
type BasicMiddlewareGroupConfig struct {
	EnableStackTrace bool // Enable stack traces in panic recovery middleware.
	EnableProfiling  bool // Serve pprof under ProfilingPrefix.

	// IdempotencyLifetime is zero for DefaultIdempotencyLifetime.
	IdempotencyLifetime time.Duration
}

// BasicMiddlewareGroup returns the middleware every route passes through:
// request IDs, idempotent retries, CORS, panic recovery, request logging and
// health checks, plus pprof when enabled.
func BasicMiddlewareGroup(cfg BasicMiddlewareGroupConfig) []fiber.Handler {
	lifetime := cfg.IdempotencyLifetime
	if lifetime <= 0 {
		lifetime = DefaultIdempotencyLifetime
	}

	group := []fiber.Handler{
		requestid.New(),
		idempotency.New(idempotency.Config{
			Lifetime:  lifetime,
			KeyHeader: IdempotencyKeyHeader,
		}),
		cors.New(),
		recover.New(recover.Config{EnableStackTrace: cfg.EnableStackTrace}),
		RequestLogMiddleware(),
		healthcheck.New(),
	}
	if cfg.EnableProfiling {
		group = append(group, pprof.New(pprof.Config{Prefix: ProfilingPrefix}))
	}
	return group
}

// RequestLogMiddleware logs each completed request. Errors from later handlers
// are rendered through the app's error handler first so the logged status is
// the one the caller receives.
func RequestLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		log := slog.WithFields(slog.M{
			"request_id": c.Locals("requestid"),
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     c.Response().StatusCode(),
			"latency":    time.Since(start).String(),
		})
		if chainErr != nil {
			log.Warnf("request failed: %v", chainErr)
			return nil
		}
		log.Info("request handled")
		return nil
	}
}
