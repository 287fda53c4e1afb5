package outputs

import (
	"context"

	"github.com/4chain-ag/go-hw-outputs/pkg/core/wire"
)

// PlannedMessage is one message of a transmission as SendOutput would send it.
type PlannedMessage struct {
	Type        wire.MessageType `json:"type"`
	PayloadSize int              `json:"payloadSize"`
}

// Plan runs SendOutput against a sender that only encodes the messages and
// returns the resulting sequence. Encoding errors are returned unchanged.
func Plan(ctx context.Context, o OutputWithData) ([]PlannedMessage, error) {
	var planned []PlannedMessage
	recorder := SenderFunc(func(_ context.Context, messageType, _ wire.MessageType, payload wire.Message) error {
		b, err := payload.MarshalWire()
		if err != nil {
			return err
		}
		planned = append(planned, PlannedMessage{Type: messageType, PayloadSize: len(b)})
		return nil
	})
	if err := SendOutput(ctx, recorder, o); err != nil {
		return nil, err
	}
	return planned, nil
}
