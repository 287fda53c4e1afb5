package testabilities

import (
	"context"
	"sync"
	"testing"

	"github.com/4chain-ag/go-hw-outputs/pkg/core/wire"
	"github.com/stretchr/testify/require"
)

// ConnMockExpectations defines the replies of the mock device connection.
type ConnMockExpectations struct {
	// Replies are returned in order, one per exchange. When they run out the
	// connection acknowledges with an empty CardanoTxItemAck frame.
	Replies []wire.Frame
	Error   error

	ExchangeCall bool
	CloseCall    bool
}

// ConnMock is an in-memory device connection.
type ConnMock struct {
	t            *testing.T
	expectations ConnMockExpectations

	mu       sync.Mutex
	requests []wire.Frame
	closed   bool
}

// Exchange records the request frame and returns the next configured reply.
func (m *ConnMock) Exchange(ctx context.Context, request wire.Frame) (wire.Frame, error) {
	m.t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return wire.Frame{}, err
	}

	m.requests = append(m.requests, request)
	if m.expectations.Error != nil {
		return wire.Frame{}, m.expectations.Error
	}

	i := len(m.requests) - 1
	if i < len(m.expectations.Replies) {
		return m.expectations.Replies[i], nil
	}
	return AckFrame(m.t), nil
}

// Close marks the connection closed.
func (m *ConnMock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Requests returns the frames received so far.
func (m *ConnMock) Requests() []wire.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]wire.Frame(nil), m.requests...)
}

// AssertCalled verifies the connection was used as expected.
func (m *ConnMock) AssertCalled() {
	m.t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.Equal(m.t, m.expectations.ExchangeCall, len(m.requests) > 0, "Discrepancy between expected and actual Exchange call")
	require.Equal(m.t, m.expectations.CloseCall, m.closed, "Discrepancy between expected and actual Close call")
}

// NewConnMock creates a new mock connection.
func NewConnMock(t *testing.T, expectations ConnMockExpectations) *ConnMock {
	return &ConnMock{
		t:            t,
		expectations: expectations,
	}
}

// AckFrame builds an acknowledgement frame.
func AckFrame(t *testing.T) wire.Frame {
	t.Helper()
	frame, err := wire.NewFrame(wire.MessageTypeTxItemAck, wire.TxItemAck{}, wire.DefaultMaxPayloadSize)
	require.NoError(t, err)
	return frame
}

// FailureFrame builds a device failure reply frame.
func FailureFrame(t *testing.T, code uint32, message string) wire.Frame {
	t.Helper()
	frame, err := wire.NewFrame(wire.MessageTypeFailure, wire.Failure{Code: code, Message: message}, wire.DefaultMaxPayloadSize)
	require.NoError(t, err)
	return frame
}
