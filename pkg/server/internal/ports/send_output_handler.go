package ports

import (
	"context"

	"github.com/4chain-ag/go-hw-outputs/pkg/server/internal/app"
	"github.com/gofiber/fiber/v2"
)

// SendOutputService defines the interface for a service responsible for transmitting outputs.
type SendOutputService interface {
	SendOutput(ctx context.Context, raw map[string]any) (*app.SendOutputResult, error)
}

// SendOutputResponse describes a completed transmission.
type SendOutputResponse struct {
	TransmissionID string `json:"transmissionId"`
	MessagesSent   int    `json:"messagesSent"`
}

// SendOutputHandler handles requests transmitting outputs to the signing device.
type SendOutputHandler struct {
	service SendOutputService
}

// Handle decodes the JSON output parameters, transmits the output and returns
// HTTP 200 OK once every message was acknowledged.
func (h *SendOutputHandler) Handle(c *fiber.Ctx) error {
	raw, err := decodeOutputParams(c)
	if err != nil {
		return err
	}

	res, err := h.service.SendOutput(c.UserContext(), raw)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(SendOutputResponse{
		TransmissionID: res.TransmissionID,
		MessagesSent:   res.MessagesSent,
	})
}

// NewSendOutputHandler creates a new SendOutputHandler with the given provider.
// If the provider is nil, it panics.
func NewSendOutputHandler(provider app.SendOutputProvider, opts ...app.SendOutputServiceOption) *SendOutputHandler {
	if provider == nil {
		panic("send output provider is nil")
	}

	return &SendOutputHandler{service: app.NewSendOutputService(provider, opts...)}
}
