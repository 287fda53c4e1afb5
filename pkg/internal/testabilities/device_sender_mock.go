package testabilities

import (
	"context"
	"sync"
	"testing"

	"github.com/4chain-ag/go-hw-outputs/pkg/core/wire"
	"github.com/stretchr/testify/require"
)

// DefaultDeviceSenderMockExpectations acknowledges every message.
var DefaultDeviceSenderMockExpectations = DeviceSenderMockExpectations{
	SendCall: true,
}

// DeviceSenderMockExpectations defines the expected behavior of the mock device.
type DeviceSenderMockExpectations struct {
	// FailAt is the 1-based index of the message the device rejects with Error.
	// Zero rejects nothing.
	FailAt int
	Error  error

	SendCall bool
}

// SentMessage is a message recorded by DeviceSenderMock.
type SentMessage struct {
	Type    wire.MessageType
	AckType wire.MessageType
	Payload wire.Message
}

// DeviceSenderMock records every message sent to it and acknowledges them
// in order, failing at the configured position.
type DeviceSenderMock struct {
	t            *testing.T
	expectations DeviceSenderMockExpectations

	mu   sync.Mutex
	sent []SentMessage
}

// Send records the message and acknowledges it.
func (m *DeviceSenderMock) Send(ctx context.Context, messageType, ackType wire.MessageType, payload wire.Message) error {
	m.t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	m.sent = append(m.sent, SentMessage{Type: messageType, AckType: ackType, Payload: payload})
	if m.expectations.FailAt > 0 && len(m.sent) == m.expectations.FailAt {
		return m.expectations.Error
	}
	return nil
}

// Sent returns the recorded messages in send order.
func (m *DeviceSenderMock) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentMessage(nil), m.sent...)
}

// SentTypes returns the message types of the recorded messages in send order.
func (m *DeviceSenderMock) SentTypes() []wire.MessageType {
	sent := m.Sent()
	types := make([]wire.MessageType, 0, len(sent))
	for _, s := range sent {
		types = append(types, s.Type)
	}
	return types
}

// AssertCalled verifies the mock was called as expected.
func (m *DeviceSenderMock) AssertCalled() {
	m.t.Helper()
	require.Equal(m.t, m.expectations.SendCall, len(m.Sent()) > 0, "Discrepancy between expected and actual Send call")
}

// AssertAcknowledgedWith verifies every recorded message awaited ackType.
func (m *DeviceSenderMock) AssertAcknowledgedWith(ackType wire.MessageType) {
	m.t.Helper()
	for i, s := range m.Sent() {
		require.Equalf(m.t, ackType, s.AckType, "message %d (%s) awaited unexpected reply type", i, s.Type)
	}
}

// NewDeviceSenderMock creates a new mock device.
func NewDeviceSenderMock(t *testing.T, expectations DeviceSenderMockExpectations) *DeviceSenderMock {
	return &DeviceSenderMock{
		t:            t,
		expectations: expectations,
	}
}
