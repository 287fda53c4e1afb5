// Package wsbridge talks to a device bridge over a websocket. Each frame
// travels as one binary message and the device answers with one binary
// message holding the reply frame.
package wsbridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/4chain-ag/go-hw-outputs/pkg/core/wire"
	"github.com/4chain-ag/go-hw-outputs/pkg/transport"
	"github.com/gorilla/websocket"
)

const (
	handshakeTimeout = 10 * time.Second
	writeTimeout     = 10 * time.Second
)

// ErrClosed is returned by Exchange after Close, or after a failed exchange
// on a client that cannot redial.
var ErrClosed = errors.New("websocket bridge connection is closed")

// UnexpectedMessageError is returned when the bridge answers with a non-binary message.
type UnexpectedMessageError struct {
	MessageType int
}

func (e *UnexpectedMessageError) Error() string {
	return fmt.Sprintf("websocket bridge sent message of type %d, binary expected", e.MessageType)
}

// Client is a transport.Conn over a websocket connection. A failed read or
// write drops the connection: a client created by Dial redials on the next
// Exchange, one created by NewClient returns ErrClosed from then on.
type Client struct {
	sync.Mutex
	ws             *websocket.Conn
	cfg            *transport.Config
	closed         bool
	maxPayloadSize int
}

// Dial connects to the bridge at cfg.URL. The session, when set, is sent in
// the Sec-WebSocket-Protocol header.
func Dial(cfg transport.Config) (transport.Conn, error) {
	return DialContext(context.Background(), cfg)
}

// DialContext is Dial bounded by ctx.
func DialContext(ctx context.Context, cfg transport.Config) (*Client, error) {
	ws, err := dial(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c := NewClient(ws, cfg.MaxPayloadSize)
	c.cfg = &cfg
	return c, nil
}

func dial(ctx context.Context, cfg transport.Config) (*websocket.Conn, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: handshakeTimeout,
	}
	if cfg.Session != "" {
		dialer.Subprotocols = []string{cfg.Session}
	}

	ws, _, err := dialer.DialContext(ctx, cfg.URL, nil)
	if err != nil {
		return nil, err
	}
	return ws, nil
}

// NewClient wraps an established websocket connection.
func NewClient(ws *websocket.Conn, maxPayloadSize int) *Client {
	if maxPayloadSize <= 0 {
		maxPayloadSize = wire.DefaultMaxPayloadSize
	}
	ws.SetReadLimit(readLimit(maxPayloadSize))
	return &Client{
		ws:             ws,
		maxPayloadSize: maxPayloadSize,
	}
}

func readLimit(maxPayloadSize int) int64 {
	return int64(wire.HeaderSize + maxPayloadSize)
}

// Exchange writes the request frame and reads the next frame from the bridge.
// Cancelling ctx aborts a pending read and drops the connection.
func (c *Client) Exchange(ctx context.Context, request wire.Frame) (wire.Frame, error) {
	c.Lock()
	defer c.Unlock()

	body, err := request.MarshalBinary()
	if err != nil {
		return wire.Frame{}, err
	}

	ws, err := c.connLocked(ctx)
	if err != nil {
		return wire.Frame{}, err
	}

	_ = ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := ws.WriteMessage(websocket.BinaryMessage, body); err != nil {
		c.dropLocked()
		return wire.Frame{}, err
	}

	_ = ws.SetReadDeadline(time.Time{})
	stop := context.AfterFunc(ctx, func() {
		_ = ws.SetReadDeadline(time.Now())
	})
	defer stop()

	msgType, data, err := ws.ReadMessage()
	if err != nil {
		c.dropLocked()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return wire.Frame{}, ctxErr
		}
		return wire.Frame{}, err
	}
	if msgType != websocket.BinaryMessage {
		return wire.Frame{}, &UnexpectedMessageError{MessageType: msgType}
	}
	return wire.ParseFrame(data, c.maxPayloadSize)
}

// connLocked returns the live connection, redialing a dropped one when the
// client knows where the bridge is.
func (c *Client) connLocked(ctx context.Context) (*websocket.Conn, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if c.ws != nil {
		return c.ws, nil
	}
	if c.cfg == nil {
		return nil, ErrClosed
	}

	ws, err := dial(ctx, *c.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to redial websocket bridge: %w", err)
	}
	ws.SetReadLimit(readLimit(c.maxPayloadSize))
	c.ws = ws
	return ws, nil
}

func (c *Client) dropLocked() {
	if c.ws == nil {
		return
	}
	_ = c.ws.Close()
	c.ws = nil
}

// Close sends a close message and closes the connection.
func (c *Client) Close() error {
	c.Lock()
	defer c.Unlock()
	c.closed = true
	if c.ws == nil {
		return nil
	}
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeTimeout))
	err := c.ws.Close()
	c.ws = nil
	return err
}
