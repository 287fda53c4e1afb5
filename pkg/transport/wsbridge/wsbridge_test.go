package wsbridge_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/4chain-ag/go-hw-outputs/pkg/core/wire"
	"github.com/4chain-ag/go-hw-outputs/pkg/internal/testabilities"
	"github.com/4chain-ag/go-hw-outputs/pkg/transport"
	"github.com/4chain-ag/go-hw-outputs/pkg/transport/wsbridge"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// newBridge starts a websocket server answering each binary message with reply(frame).
func newBridge(t *testing.T, reply func(request wire.Frame) (int, []byte)) string {
	t.Helper()
	upgrader := websocket.Upgrader{
		CheckOrigin:  func(*http.Request) bool { return true },
		Subprotocols: []string{"session-1"},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}
			frame, err := wire.ParseFrame(data, wire.DefaultMaxPayloadSize)
			if err != nil {
				return
			}
			msgType, payload := reply(frame)
			if payload == nil {
				continue
			}
			if err := ws.WriteMessage(msgType, payload); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestClient_Exchange(t *testing.T) {
	// given:
	ack, err := testabilities.AckFrame(t).MarshalBinary()
	require.NoError(t, err)

	received := make(chan wire.MessageType, 1)
	url := newBridge(t, func(request wire.Frame) (int, []byte) {
		received <- request.MessageType()
		return websocket.BinaryMessage, ack
	})
	session, err := transport.NewDialer().
		Register(transport.KindWebsocket, wsbridge.Dial).
		Dial(transport.Config{Kind: transport.KindWebsocket, URL: url, Session: "session-1"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	// when:
	err = session.Send(context.Background(), wire.MessageTypeAssetGroup, wire.MessageTypeTxItemAck, wire.AssetGroup{PolicyID: "aa", TokensCount: 1})

	// then:
	require.NoError(t, err)
	require.Equal(t, wire.MessageTypeAssetGroup, <-received)
}

func TestClient_Exchange_TextReply(t *testing.T) {
	// given:
	url := newBridge(t, func(wire.Frame) (int, []byte) {
		return websocket.TextMessage, []byte("hello")
	})
	client, err := wsbridge.DialContext(context.Background(), transport.Config{URL: url})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	// when:
	_, err = client.Exchange(context.Background(), testabilities.AckFrame(t))

	// then:
	var msgErr *wsbridge.UnexpectedMessageError
	require.ErrorAs(t, err, &msgErr)
	require.Equal(t, websocket.TextMessage, msgErr.MessageType)
}

func TestClient_Exchange_ContextCancelled(t *testing.T) {
	// given:
	url := newBridge(t, func(wire.Frame) (int, []byte) { return 0, nil })
	client, err := wsbridge.DialContext(context.Background(), transport.Config{URL: url})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// when:
	_, err = client.Exchange(ctx, testabilities.AckFrame(t))

	// then:
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_ExchangeAfterClose(t *testing.T) {
	// given:
	url := newBridge(t, func(wire.Frame) (int, []byte) { return 0, nil })
	client, err := wsbridge.DialContext(context.Background(), transport.Config{URL: url})
	require.NoError(t, err)
	require.NoError(t, client.Close())

	// when:
	_, err = client.Exchange(context.Background(), testabilities.AckFrame(t))

	// then:
	require.ErrorIs(t, err, wsbridge.ErrClosed)
}

// slowFirstReply acknowledges every request, the first one only after delay.
func slowFirstReply(t *testing.T, delay time.Duration, received *atomic.Int32) func(wire.Frame) (int, []byte) {
	ack, err := testabilities.AckFrame(t).MarshalBinary()
	require.NoError(t, err)

	return func(wire.Frame) (int, []byte) {
		if received.Add(1) == 1 {
			time.Sleep(delay)
		}
		return websocket.BinaryMessage, ack
	}
}

func TestSession_RecoversAfterTimedOutExchange(t *testing.T) {
	// given:
	var received atomic.Int32
	url := newBridge(t, slowFirstReply(t, 500*time.Millisecond, &received))

	session, err := transport.NewDialer().
		Register(transport.KindWebsocket, wsbridge.Dial).
		Dial(transport.Config{Kind: transport.KindWebsocket, URL: url, Timeout: 200 * time.Millisecond})
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	send := func() error {
		return session.Send(context.Background(), wire.MessageTypeAssetGroup, wire.MessageTypeTxItemAck, wire.AssetGroup{PolicyID: "aa", TokensCount: 1})
	}

	// when:
	err = send()

	// then:
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// and:
	require.NoError(t, send())
	require.NoError(t, send())
	require.Equal(t, int32(3), received.Load())
}

func TestClient_WrappedConnectionFailsFastAfterTimeout(t *testing.T) {
	// given:
	var received atomic.Int32
	url := newBridge(t, slowFirstReply(t, 200*time.Millisecond, &received))

	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	client := wsbridge.NewClient(ws, wire.DefaultMaxPayloadSize)
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.Exchange(ctx, testabilities.AckFrame(t))
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// when:
	_, err = client.Exchange(context.Background(), testabilities.AckFrame(t))

	// then:
	require.ErrorIs(t, err, wsbridge.ErrClosed)

	time.Sleep(250 * time.Millisecond)
	require.Equal(t, int32(1), received.Load())
}
