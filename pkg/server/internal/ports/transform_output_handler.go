package ports

import (
	"context"

	"github.com/4chain-ag/go-hw-outputs/pkg/core/outputs"
	"github.com/4chain-ag/go-hw-outputs/pkg/core/wire"
	"github.com/4chain-ag/go-hw-outputs/pkg/server/internal/app"
	"github.com/gofiber/fiber/v2"
)

// TransformOutputService defines the interface for a service responsible for transforming outputs.
type TransformOutputService interface {
	TransformOutput(ctx context.Context, raw map[string]any) (*app.TransformOutputResult, error)
}

// TransformOutputResponse is the canonical output record, its token bundle and
// the planned message sequence.
type TransformOutputResponse struct {
	Output      wire.TxOutput               `json:"output"`
	TokenBundle []wire.AssetGroupWithTokens `json:"tokenBundle"`
	Messages    []outputs.PlannedMessage    `json:"messages"`
}

// TransformOutputHandler handles requests validating and transforming outputs.
type TransformOutputHandler struct {
	service TransformOutputService
}

// Handle decodes the JSON output parameters and returns HTTP 200 OK with the
// transformed output. Invalid parameters produce the corresponding application error.
func (h *TransformOutputHandler) Handle(c *fiber.Ctx) error {
	raw, err := decodeOutputParams(c)
	if err != nil {
		return err
	}

	res, err := h.service.TransformOutput(c.UserContext(), raw)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(NewTransformOutputSuccessResponse(res))
}

// NewTransformOutputHandler creates a new TransformOutputHandler.
func NewTransformOutputHandler() *TransformOutputHandler {
	return &TransformOutputHandler{service: app.NewTransformOutputService()}
}

// NewTransformOutputSuccessResponse maps the transformation result to the response body.
func NewTransformOutputSuccessResponse(res *app.TransformOutputResult) TransformOutputResponse {
	return TransformOutputResponse{
		Output:      res.Output.Output,
		TokenBundle: res.Output.TokenBundle,
		Messages:    res.Messages,
	}
}
