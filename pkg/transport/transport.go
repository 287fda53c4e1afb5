// Package transport carries device messages over a bridge connection and
// pairs every request with its reply.
package transport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/4chain-ag/go-hw-outputs/pkg/core/wire"
	"github.com/google/uuid"
	"github.com/gookit/slog"
)

// Conn is a request/reply channel to the device. Exchange sends one frame and
// returns the frame the device answered with.
type Conn interface {
	Exchange(ctx context.Context, request wire.Frame) (wire.Frame, error)
	Close() error
}

// DeviceFailureError is returned when the device answers with a Failure message.
type DeviceFailureError struct {
	Code    uint32
	Message string
}

func (e *DeviceFailureError) Error() string {
	return fmt.Sprintf("device failure (code %d): %s", e.Code, e.Message)
}

// UnexpectedReplyError is returned when the device answers with a message of
// a type other than the expected acknowledgement.
type UnexpectedReplyError struct {
	Expected wire.MessageType
	Actual   wire.MessageType
	ID       uint16
}

func (e *UnexpectedReplyError) Error() string {
	return fmt.Sprintf("unexpected device reply %s (%d), expected %s", e.Actual, e.ID, e.Expected)
}

// Session sends messages to one device over conn. Calls are serialized: at
// most one message is in flight at a time.
type Session struct {
	id             string
	conn           Conn
	timeout        time.Duration
	maxPayloadSize int

	mu sync.Mutex
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionID overrides the generated session identifier used in logs.
func WithSessionID(id string) SessionOption {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// WithTimeout bounds every single exchange. Zero disables the bound.
func WithTimeout(timeout time.Duration) SessionOption {
	return func(s *Session) {
		s.timeout = timeout
	}
}

// WithMaxPayloadSize sets the largest payload the device accepts.
func WithMaxPayloadSize(size int) SessionOption {
	return func(s *Session) {
		if size > 0 {
			s.maxPayloadSize = size
		}
	}
}

// NewSession returns a session over conn. It panics if conn is nil.
func NewSession(conn Conn, opts ...SessionOption) *Session {
	if conn == nil {
		panic("device connection is nil")
	}

	s := &Session{
		id:             uuid.NewString(),
		conn:           conn,
		maxPayloadSize: wire.DefaultMaxPayloadSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Send encodes payload as a messageType frame, exchanges it and checks that
// the reply is of type ackType. Failure replies become *DeviceFailureError,
// other replies *UnexpectedReplyError.
func (s *Session) Send(ctx context.Context, messageType, ackType wire.MessageType, payload wire.Message) error {
	frame, err := wire.NewFrame(messageType, payload, s.maxPayloadSize)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	log := slog.WithFields(slog.M{
		"session":      s.id,
		"message_type": messageType.String(),
		"payload_size": len(frame.Payload),
	})
	log.Debug("sending device message")

	reply, err := s.conn.Exchange(ctx, frame)
	if err != nil {
		log.Warnf("device exchange failed: %v", err)
		return err
	}

	switch actual := reply.MessageType(); actual {
	case ackType:
		return nil
	case wire.MessageTypeFailure:
		failure, err := wire.ParseFailure(reply.Payload)
		if err != nil {
			return fmt.Errorf("failed to decode device failure: %w", err)
		}
		log.Warnf("device rejected message: %s", failure.Message)
		return &DeviceFailureError{Code: failure.Code, Message: failure.Message}
	default:
		return &UnexpectedReplyError{Expected: ackType, Actual: actual, ID: reply.Type}
	}
}

// Close closes the underlying connection.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}
