package outputs

import (
	"context"
	"fmt"

	"github.com/4chain-ag/go-hw-outputs/pkg/core/wire"
)

// MaxChunkSize is the number of hex characters carried by one chunk message.
const MaxChunkSize = 1024 * 2

// Sender delivers one message to the device and waits for the reply of
// type ackType. It returns an error when the reply does not arrive or is of
// another type.
type Sender interface {
	Send(ctx context.Context, messageType, ackType wire.MessageType, payload wire.Message) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, messageType, ackType wire.MessageType, payload wire.Message) error

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, messageType, ackType wire.MessageType, payload wire.Message) error {
	return f(ctx, messageType, ackType, payload)
}

// SendChunkedHexString streams data in chunks of at most chunkSize hex
// characters, one message of type messageType per chunk. Each chunk is
// acknowledged before the next one is sent. An empty string sends nothing.
// The first failure stops the transfer; chunks already sent stay sent.
func SendChunkedHexString(ctx context.Context, sender Sender, data string, chunkSize int, messageType wire.MessageType) error {
	if chunkSize <= 0 {
		panic(fmt.Sprintf("outputs: invalid chunk size %d", chunkSize))
	}
	for offset := 0; offset < len(data); {
		end := min(offset+chunkSize, len(data))
		chunk := data[offset:end]
		if err := sender.Send(ctx, messageType, wire.MessageTypeTxItemAck, wire.Chunk{Data: chunk}); err != nil {
			return err
		}
		offset += len(chunk)
	}
	return nil
}

// SendOutput transmits the output header, then every asset group followed by
// its tokens, then the inline datum chunks and finally the reference script
// chunks. Every message waits for its acknowledgement before the next one.
func SendOutput(ctx context.Context, sender Sender, o OutputWithData) error {
	if err := sender.Send(ctx, wire.MessageTypeTxOutput, wire.MessageTypeTxItemAck, o.Output); err != nil {
		return err
	}

	for _, group := range o.TokenBundle {
		if err := sender.Send(ctx, wire.MessageTypeAssetGroup, wire.MessageTypeTxItemAck, group.Header()); err != nil {
			return err
		}
		for _, token := range group.Tokens {
			if err := sender.Send(ctx, wire.MessageTypeToken, wire.MessageTypeTxItemAck, token); err != nil {
				return err
			}
		}
	}

	if o.InlineDatum != nil {
		if err := SendChunkedHexString(ctx, sender, *o.InlineDatum, MaxChunkSize, wire.MessageTypeTxInlineDatumChunk); err != nil {
			return err
		}
	}

	if o.ReferenceScript != nil {
		if err := SendChunkedHexString(ctx, sender, *o.ReferenceScript, MaxChunkSize, wire.MessageTypeTxReferenceScriptChunk); err != nil {
			return err
		}
	}

	return nil
}
