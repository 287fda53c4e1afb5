package ports

import (
	"github.com/4chain-ag/go-hw-outputs/pkg/server/internal/app"
	"github.com/gofiber/fiber/v2"
)

// HandlerRegistryService defines the main point for registering HTTP handler dependencies.
// It acts as a central registry for mapping API endpoints to their handler implementations.
type HandlerRegistryService struct {
	transformOutput *TransformOutputHandler
	sendOutput      *SendOutputHandler
}

// TransformOutput method delegates the request to the configured transform output handler.
func (h *HandlerRegistryService) TransformOutput(c *fiber.Ctx) error {
	return h.transformOutput.Handle(c)
}

// SendOutput method delegates the request to the configured send output handler.
func (h *HandlerRegistryService) SendOutput(c *fiber.Ctx) error {
	return h.sendOutput.Handle(c)
}

// NewHandlerRegistryService creates and returns a new HandlerRegistryService instance.
// It initializes all handler implementations with their required dependencies.
func NewHandlerRegistryService(provider app.SendOutputProvider, opts ...app.SendOutputServiceOption) *HandlerRegistryService {
	return &HandlerRegistryService{
		transformOutput: NewTransformOutputHandler(),
		sendOutput:      NewSendOutputHandler(provider, opts...),
	}
}
