// Package wire holds the canonical records exchanged with the signing device
// and their binary encoding. Records are encoded as the device's protobuf
// messages and carried in length-prefixed frames.
package wire

import "fmt"

// MessageType is the tag identifying a device message.
type MessageType string

const (
	MessageTypeFailure                MessageType = "Failure"
	MessageTypeTxItemAck              MessageType = "CardanoTxItemAck"
	MessageTypeTxOutput               MessageType = "CardanoTxOutput"
	MessageTypeAssetGroup             MessageType = "CardanoAssetGroup"
	MessageTypeToken                  MessageType = "CardanoToken"
	MessageTypeTxInlineDatumChunk     MessageType = "CardanoTxInlineDatumChunk"
	MessageTypeTxReferenceScriptChunk MessageType = "CardanoTxReferenceScriptChunk"
	MessageTypeUnknown                MessageType = "Unknown"
)

var messageTypeIDs = map[MessageType]uint16{
	MessageTypeFailure:                3,
	MessageTypeTxItemAck:              313,
	MessageTypeTxOutput:               322,
	MessageTypeAssetGroup:             323,
	MessageTypeToken:                  324,
	MessageTypeTxInlineDatumChunk:     335,
	MessageTypeTxReferenceScriptChunk: 336,
}

var messageTypesByID = func() map[uint16]MessageType {
	m := make(map[uint16]MessageType, len(messageTypeIDs))
	for t, id := range messageTypeIDs {
		m[id] = t
	}
	return m
}()

// ID returns the numeric wire identifier of the message type.
func (t MessageType) ID() (uint16, bool) {
	id, ok := messageTypeIDs[t]
	return id, ok
}

func (t MessageType) String() string { return string(t) }

// MessageTypeByID resolves a numeric wire identifier. Unknown identifiers
// resolve to MessageTypeUnknown.
func MessageTypeByID(id uint16) MessageType {
	if t, ok := messageTypesByID[id]; ok {
		return t
	}
	return MessageTypeUnknown
}

// Message is a record that can be encoded as a device message payload.
type Message interface {
	MarshalWire() ([]byte, error)
}

// UnsupportedMessageTypeError is returned when a frame is built for a type
// without a wire identifier.
type UnsupportedMessageTypeError struct {
	Type MessageType
}

func (e *UnsupportedMessageTypeError) Error() string {
	return fmt.Sprintf("wire: unsupported message type %q", string(e.Type))
}
