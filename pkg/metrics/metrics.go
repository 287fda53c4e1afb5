// Package metrics exposes Prometheus metrics of device transmissions and of
// the HTTP API.
package metrics

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/4chain-ag/go-hw-outputs/pkg/core/outputs"
	"github.com/4chain-ag/go-hw-outputs/pkg/core/wire"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hw_outputs"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Collector owns a registry and the metrics recorded into it.
type Collector struct {
	registry *prometheus.Registry

	messagesTotal        *prometheus.CounterVec
	chunksTotal          *prometheus.CounterVec
	transmissionsTotal   *prometheus.CounterVec
	transmissionDuration prometheus.Histogram
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
}

// NewCollector registers all metrics in a fresh registry together with the Go
// and process collectors.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		messagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "device",
				Name:      "messages_total",
				Help:      "Total number of messages sent to the device",
			},
			[]string{"message_type", "status"},
		),
		chunksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "device",
				Name:      "chunks_total",
				Help:      "Total number of payload chunks sent to the device",
			},
			[]string{"field"},
		),
		transmissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "outputs",
				Name:      "transmissions_total",
				Help:      "Total number of output transmissions",
			},
			[]string{"status"},
		),
		transmissionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "outputs",
				Name:      "transmission_duration_seconds",
				Help:      "Time taken to transmit one output",
				Buckets:   prometheus.DefBuckets,
			},
		),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "server",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "server",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.messagesTotal,
		c.chunksTotal,
		c.transmissionsTotal,
		c.transmissionDuration,
		c.httpRequestsTotal,
		c.httpRequestDuration,
	)
	return c
}

// Registry returns the registry the collector records into.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// InstrumentSender wraps next so that every message is counted by type and outcome.
func (c *Collector) InstrumentSender(next outputs.Sender) outputs.Sender {
	return outputs.SenderFunc(func(ctx context.Context, messageType, ackType wire.MessageType, payload wire.Message) error {
		err := next.Send(ctx, messageType, ackType, payload)
		c.messagesTotal.WithLabelValues(messageType.String(), status(err)).Inc()
		if err == nil {
			switch messageType {
			case wire.MessageTypeTxInlineDatumChunk:
				c.chunksTotal.WithLabelValues("inline_datum").Inc()
			case wire.MessageTypeTxReferenceScriptChunk:
				c.chunksTotal.WithLabelValues("reference_script").Inc()
			}
		}
		return err
	})
}

// ObserveTransmission records the outcome and duration of one output transmission.
func (c *Collector) ObserveTransmission(err error, duration time.Duration) {
	c.transmissionsTotal.WithLabelValues(status(err)).Inc()
	c.transmissionDuration.Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{}))
}

// HTTPMiddleware records request counts and latencies by route.
func (c *Collector) HTTPMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		code := ctx.Response().StatusCode()
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		}

		path := ctx.Route().Path
		c.httpRequestsTotal.WithLabelValues(ctx.Method(), path, strconv.Itoa(code)).Inc()
		c.httpRequestDuration.WithLabelValues(ctx.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

func status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
