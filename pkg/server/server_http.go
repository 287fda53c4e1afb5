// Package server exposes output transformation and transmission over HTTP.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/4chain-ag/go-hw-outputs/pkg/metrics"
	"github.com/4chain-ag/go-hw-outputs/pkg/server/internal/adapters"
	"github.com/4chain-ag/go-hw-outputs/pkg/server/internal/app"
	"github.com/4chain-ag/go-hw-outputs/pkg/server/internal/ports"
	"github.com/4chain-ag/go-hw-outputs/pkg/server/internal/ports/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/google/uuid"
)

const (
	// TransformOutputPath validates an output and returns its device records and message plan.
	TransformOutputPath = "/api/v1/outputs/transform"

	// SendOutputPath transmits an output to the signing device.
	SendOutputPath = "/api/v1/outputs/send"

	// MetricsPath serves the Prometheus metrics.
	MetricsPath = "/metrics"

	// MonitorPath serves the Fiber monitor dashboard.
	MonitorPath = "/monitor"
)

// Config holds the configuration settings for the HTTP server
type Config struct {
	// AppName is the name of the application.
	AppName string `mapstructure:"app_name"`

	// Port is the TCP port on which the server will listen.
	Port int `mapstructure:"port"`

	// Addr is the address the server will bind to.
	Addr string `mapstructure:"addr"`

	// ServerHeader is the value of the Server header returned in HTTP responses.
	ServerHeader string `mapstructure:"server_header"`

	// AdminBearerToken is the token required to transmit outputs to the device.
	AdminBearerToken string `mapstructure:"admin_bearer_token"`

	// BodyLimit defines the maximum allowed request body size (in bytes).
	BodyLimit int64 `mapstructure:"body_limit"`

	// ConnectionReadTimeout defines the maximum duration an active connection is allowed to stay open.
	// Once this threshold is exceeded, the connection will be forcefully closed.
	ConnectionReadTimeout time.Duration `mapstructure:"connection_read_timeout_limit"`

	// TransmissionTimeout bounds a single output transmission. Zero disables the bound.
	TransmissionTimeout time.Duration `mapstructure:"transmission_timeout"`

	// IdempotencyLifetime is how long a response is replayed for a repeated X-Idempotency-Key.
	IdempotencyLifetime time.Duration `mapstructure:"idempotency_lifetime"`

	// EnableProfiling serves pprof under /api/v1/debug/pprof.
	EnableProfiling bool `mapstructure:"enable_profiling"`
}

// DefaultConfig provides a default configuration with reasonable values for local development.
var DefaultConfig = Config{
	AppName:               "HW Outputs API v0.0.0",
	Port:                  3000,
	Addr:                  "localhost",
	ServerHeader:          "HW Outputs API",
	AdminBearerToken:      uuid.NewString(),
	BodyLimit:             middleware.ReadBodyLimit1MB,
	ConnectionReadTimeout: 10 * time.Second,
	TransmissionTimeout:   2 * time.Minute,
	IdempotencyLifetime:   middleware.DefaultIdempotencyLifetime,
}

// ServerOption defines a functional option for configuring an HTTP server.
// These options allow for flexible setup of middlewares and configurations.
type ServerOption func(*ServerHTTP)

// WithMiddleware adds a Fiber middleware handler to the HTTP server configuration.
// It returns a ServerOption that appends the given middleware to the server's middleware stack.
func WithMiddleware(f fiber.Handler) ServerOption {
	return func(s *ServerHTTP) {
		s.middleware = append(s.middleware, f)
	}
}

// WithSender sets the device sender the HTTP server transmits outputs through.
// Every message sent is counted by the server's metrics collector.
func WithSender(sender app.SendOutputProvider) ServerOption {
	return func(s *ServerHTTP) {
		s.sender = sender
	}
}

// WithMetrics sets the collector recording transmissions and HTTP requests.
// Without it, the server serves metrics from a collector of its own.
func WithMetrics(collector *metrics.Collector) ServerOption {
	return func(s *ServerHTTP) {
		s.metrics = collector
	}
}

// WithAdminBearerToken sets the admin bearer token used for authenticating
// the transmission route on the HTTP server.
// It returns a ServerOption that applies this configuration to ServerHTTP.
func WithAdminBearerToken(token string) ServerOption {
	return func(s *ServerHTTP) {
		s.cfg.AdminBearerToken = token
	}
}

// WithBodyLimit returns a ServerOption that sets the maximum allowed size (in bytes)
// of the JSON request body.
func WithBodyLimit(limit int64) ServerOption {
	return func(s *ServerHTTP) {
		s.cfg.BodyLimit = limit
	}
}

// WithTransmissionTimeout bounds a single output transmission.
func WithTransmissionTimeout(timeout time.Duration) ServerOption {
	return func(s *ServerHTTP) {
		s.cfg.TransmissionTimeout = timeout
	}
}

// WithConfig sets the configuration for the HTTP server using the provided Config.
// It initializes a new Fiber application with the specified server settings.
// Returns a ServerOption to apply during server setup.
func WithConfig(cfg Config) ServerOption {
	return func(s *ServerHTTP) {
		s.cfg = cfg
		s.app = newFiberApp(cfg)
	}
}

// ServerHTTP represents the HTTP server instance, including configuration,
// Fiber app instance, middleware stack, and registered request handlers.
type ServerHTTP struct {
	cfg        Config          // cfg holds the server configuration settings.
	app        *fiber.App      // app is the Fiber application instance serving HTTP requests.
	middleware []fiber.Handler // middleware is a list of Fiber middleware functions to be applied globally.
	sender     app.SendOutputProvider
	metrics    *metrics.Collector
}

// SocketAddr builds the address string for binding.
func (s *ServerHTTP) SocketAddr() string {
	return fmt.Sprintf("%s:%d", s.cfg.Addr, s.cfg.Port)
}

// ListenAndServe starts the HTTP server and begins listening on the configured socket address.
// It blocks until the server is stopped or an error occurs.
func (s *ServerHTTP) ListenAndServe(ctx context.Context) error {
	return s.app.Listen(s.SocketAddr())
}

// Shutdown gracefully shuts down the HTTP server using the provided context,
// allowing ongoing requests to complete within the context's deadline.
func (s *ServerHTTP) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// New creates and configures a new instance of ServerHTTP.
// It initializes the application with default settings and middleware, registers the
// output handlers using the configured device sender, and applies any optional
// functional configuration options passed via opts.
func New(opts ...ServerOption) *ServerHTTP {
	srv := &ServerHTTP{
		cfg:    DefaultConfig,
		app:    newFiberApp(DefaultConfig),
		sender: adapters.NewNoopSender(),
	}

	for _, o := range opts {
		o(srv)
	}
	if srv.metrics == nil {
		srv.metrics = metrics.NewCollector()
	}

	registry := ports.NewHandlerRegistryService(srv.metrics.InstrumentSender(srv.sender),
		app.WithTransmissionObserver(srv.metrics),
		app.WithTransmissionTimeout(srv.cfg.TransmissionTimeout),
	)

	global := middleware.BasicMiddlewareGroup(middleware.BasicMiddlewareGroupConfig{
		EnableStackTrace:    true,
		EnableProfiling:     srv.cfg.EnableProfiling,
		IdempotencyLifetime: srv.cfg.IdempotencyLifetime,
	})
	global = append(global, srv.metrics.HTTPMiddleware())
	global = append(global, srv.middleware...)
	for _, h := range global {
		srv.app.Use(h)
	}

	limit := middleware.LimitJSONBodyMiddleware(srv.cfg.BodyLimit)
	srv.app.Post(TransformOutputPath, limit, registry.TransformOutput)
	srv.app.Post(SendOutputPath, middleware.BearerTokenAuthorizationMiddleware(srv.cfg.AdminBearerToken), limit, registry.SendOutput)

	srv.app.Get(MetricsPath, srv.metrics.Handler())
	srv.app.Get(MonitorPath, monitor.New(monitor.Config{Title: "HW Outputs API"}))

	return srv
}

// newFiberApp creates and returns a new instance of a fiber.App with the provided configuration.
// The app is configured with case-sensitive routing, strict routing, custom server headers, and read timeout settings.
func newFiberApp(cfg Config) *fiber.App {
	return fiber.New(fiber.Config{
		CaseSensitive: true,
		StrictRouting: true,
		ServerHeader:  cfg.ServerHeader,
		AppName:       cfg.AppName,
		ReadTimeout:   cfg.ConnectionReadTimeout,
		ErrorHandler:  ports.ErrorHandler(),
	})
}
