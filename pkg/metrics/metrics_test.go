package metrics_test

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/4chain-ag/go-hw-outputs/pkg/core/outputs"
	"github.com/4chain-ag/go-hw-outputs/pkg/core/wire"
	"github.com/4chain-ag/go-hw-outputs/pkg/internal/testabilities"
	"github.com/4chain-ag/go-hw-outputs/pkg/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollector_InstrumentSender(t *testing.T) {
	// given:
	raw := testabilities.DefaultOutputParams()
	raw["inlineDatum"] = testabilities.HexPayload(4096)
	raw["referenceScript"] = testabilities.HexPayload(4)
	output, err := outputs.TransformOutput(raw)
	require.NoError(t, err)

	collector := metrics.NewCollector()
	device := testabilities.NewDeviceSenderMock(t, testabilities.DefaultDeviceSenderMockExpectations)

	// when:
	err = outputs.SendOutput(context.Background(), collector.InstrumentSender(device), output)

	// then:
	require.NoError(t, err)
	expected := `
# HELP hw_outputs_device_chunks_total Total number of payload chunks sent to the device
# TYPE hw_outputs_device_chunks_total counter
hw_outputs_device_chunks_total{field="inline_datum"} 2
hw_outputs_device_chunks_total{field="reference_script"} 1
`
	require.NoError(t, testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected), "hw_outputs_device_chunks_total"))

	count, err := testutil.GatherAndCount(collector.Registry(), "hw_outputs_device_messages_total")
	require.NoError(t, err)
	require.Equal(t, 3, count, "one series per message type")
}

func TestCollector_InstrumentSender_CountsFailures(t *testing.T) {
	// given:
	collector := metrics.NewCollector()
	device := testabilities.NewDeviceSenderMock(t, testabilities.DeviceSenderMockExpectations{
		SendCall: true,
		FailAt:   1,
		Error:    errors.New("device busy"),
	})
	sender := collector.InstrumentSender(device)

	// when:
	err := sender.Send(context.Background(), wire.MessageTypeToken, wire.MessageTypeTxItemAck, wire.Token{AssetNameBytes: "74"})

	// then:
	require.Error(t, err)
	expected := `
# HELP hw_outputs_device_messages_total Total number of messages sent to the device
# TYPE hw_outputs_device_messages_total counter
hw_outputs_device_messages_total{message_type="CardanoToken",status="error"} 1
`
	require.NoError(t, testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected), "hw_outputs_device_messages_total"))
}

func TestCollector_ObserveTransmission(t *testing.T) {
	// given:
	collector := metrics.NewCollector()

	// when:
	collector.ObserveTransmission(nil, 10*time.Millisecond)
	collector.ObserveTransmission(errors.New("failed"), time.Second)

	// then:
	expected := `
# HELP hw_outputs_outputs_transmissions_total Total number of output transmissions
# TYPE hw_outputs_outputs_transmissions_total counter
hw_outputs_outputs_transmissions_total{status="error"} 1
hw_outputs_outputs_transmissions_total{status="success"} 1
`
	require.NoError(t, testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected), "hw_outputs_outputs_transmissions_total"))
}

func TestCollector_Handler(t *testing.T) {
	// given:
	collector := metrics.NewCollector()
	app := fiber.New()
	app.Use(collector.HTTPMiddleware())
	app.Get("/metrics", collector.Handler())
	app.Get("/livez", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	_, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/livez", nil))
	require.NoError(t, err)

	// when:
	res, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil))

	// then:
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `hw_outputs_server_http_requests_total{method="GET",path="/livez",status="200"} 1`)
}
