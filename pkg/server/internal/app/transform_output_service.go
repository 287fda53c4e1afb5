package app

import (
	"context"

	"github.com/4chain-ag/go-hw-outputs/pkg/core/outputs"
)

// TransformOutputResult is the canonical output together with the messages
// its transmission would consist of.
type TransformOutputResult struct {
	Output   outputs.OutputWithData
	Messages []outputs.PlannedMessage
}

// TransformOutputService validates raw output parameters and plans their transmission
// without talking to a device.
type TransformOutputService struct{}

// TransformOutput validates and transforms the raw output, then plans the message sequence.
// Returns an incorrect-input Error for invalid parameters.
func (s *TransformOutputService) TransformOutput(ctx context.Context, raw map[string]any) (*TransformOutputResult, error) {
	output, err := outputs.TransformOutput(raw)
	if err != nil {
		return nil, translateTransmissionError(err)
	}

	messages, err := outputs.Plan(ctx, output)
	if err != nil {
		return nil, translateTransmissionError(err)
	}

	return &TransformOutputResult{Output: output, Messages: messages}, nil
}

// NewTransformOutputService creates a new TransformOutputService.
func NewTransformOutputService() *TransformOutputService {
	return &TransformOutputService{}
}
