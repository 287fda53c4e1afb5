package adapters

import (
	"context"

	"github.com/4chain-ag/go-hw-outputs/pkg/core/wire"
	"github.com/gookit/slog"
)

// NoopSender acknowledges every message without reaching a device. The server
// uses it until a device transport is configured.
type NoopSender struct{}

// Send logs the message and reports it as acknowledged.
func (NoopSender) Send(ctx context.Context, messageType, ackType wire.MessageType, payload wire.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	slog.Debugf("noop sender: %s acknowledged with %s", messageType, ackType)
	return nil
}

// NewNoopSender returns a NoopSender.
func NewNoopSender() *NoopSender { return &NoopSender{} }
