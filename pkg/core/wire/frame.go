package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// HeaderSize is the fixed frame header: message type (2 bytes) and payload length (4 bytes).
	HeaderSize = 6

	// DefaultMaxPayloadSize bounds a single message payload. The device refuses anything larger.
	DefaultMaxPayloadSize = 8 * 1024
)

var (
	ErrShortHeader     = errors.New("wire: short frame header")
	ErrPayloadTooLarge = errors.New("wire: payload too large")
	ErrTruncated       = errors.New("wire: truncated frame payload")
	ErrTrailingBytes   = errors.New("wire: trailing bytes after frame payload")
)

// Frame is one complete message on the device channel.
type Frame struct {
	Type    uint16
	Payload []byte
}

// MessageType resolves the frame's numeric type.
func (f Frame) MessageType() MessageType {
	return MessageTypeByID(f.Type)
}

// NewFrame encodes m as a frame of type t. Payloads above maxPayloadSize are refused.
func NewFrame(t MessageType, m Message, maxPayloadSize int) (Frame, error) {
	id, ok := t.ID()
	if !ok {
		return Frame{}, &UnsupportedMessageTypeError{Type: t}
	}
	payload, err := m.MarshalWire()
	if err != nil {
		return Frame{}, err
	}
	if len(payload) > maxPayloadSize {
		return Frame{}, fmt.Errorf("%w: %s payload is %d bytes, limit %d", ErrPayloadTooLarge, t, len(payload), maxPayloadSize)
	}
	return Frame{Type: id, Payload: payload}, nil
}

// MarshalBinary writes the header followed by the payload.
func (f Frame) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize+len(f.Payload))
	binary.BigEndian.PutUint16(buf[0:2], f.Type)
	binary.BigEndian.PutUint32(buf[2:6], uint32(len(f.Payload)))
	copy(buf[HeaderSize:], f.Payload)
	return buf, nil
}

// ParseFrame decodes exactly one frame from b.
func ParseFrame(b []byte, maxPayloadSize int) (Frame, error) {
	if len(b) < HeaderSize {
		return Frame{}, ErrShortHeader
	}
	t := binary.BigEndian.Uint16(b[0:2])
	n := binary.BigEndian.Uint32(b[2:6])
	if uint64(n) > uint64(maxPayloadSize) {
		return Frame{}, ErrPayloadTooLarge
	}
	rest := b[HeaderSize:]
	switch {
	case uint64(len(rest)) < uint64(n):
		return Frame{}, ErrTruncated
	case uint64(len(rest)) > uint64(n):
		return Frame{}, ErrTrailingBytes
	}
	payload := make([]byte, n)
	copy(payload, rest)
	return Frame{Type: t, Payload: payload}, nil
}
