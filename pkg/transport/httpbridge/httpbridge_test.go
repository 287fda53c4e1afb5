package httpbridge_test

import (
	"context"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/4chain-ag/go-hw-outputs/pkg/core/wire"
	"github.com/4chain-ag/go-hw-outputs/pkg/internal/testabilities"
	"github.com/4chain-ag/go-hw-outputs/pkg/transport"
	"github.com/4chain-ag/go-hw-outputs/pkg/transport/httpbridge"
	"github.com/bsv-blockchain/go-sdk/util"
	"github.com/stretchr/testify/require"
)

func newBridge(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Exchange(t *testing.T) {
	// given:
	var gotPath string
	var gotBody []byte
	ack, err := testabilities.AckFrame(t).MarshalBinary()
	require.NoError(t, err)

	srv := newBridge(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, hex.EncodeToString(ack))
	})
	client := httpbridge.New(srv.URL+"/", "7")

	request, err := wire.NewFrame(wire.MessageTypeTxInlineDatumChunk, wire.Chunk{Data: "abcd"}, wire.DefaultMaxPayloadSize)
	require.NoError(t, err)

	// when:
	reply, err := client.Exchange(context.Background(), request)

	// then:
	require.NoError(t, err)
	require.Equal(t, wire.MessageTypeTxItemAck, reply.MessageType())
	require.Equal(t, "/call/7", gotPath)
	require.Equal(t, "014f000000040a02abcd", string(gotBody))
}

func TestClient_Exchange_Errors(t *testing.T) {
	tests := map[string]struct {
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		"non 200 reply": {
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, `{"error":"wrong previous session"}`)
			},
			check: func(t *testing.T, err error) {
				var httpErr *util.HTTPError
				require.ErrorAs(t, err, &httpErr)
				require.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
			},
		},
		"reply is not hex": {
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, "zz")
			},
			check: func(t *testing.T, err error) {
				require.ErrorContains(t, err, "invalid hex")
			},
		},
		"truncated reply frame": {
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, "013900000002")
			},
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, wire.ErrTruncated)
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			// given:
			srv := newBridge(t, tc.handler)
			client := httpbridge.New(srv.URL, "1")

			// when:
			_, err := client.Exchange(context.Background(), testabilities.AckFrame(t))

			// then:
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestDial_WithSession(t *testing.T) {
	// given:
	ack, err := testabilities.AckFrame(t).MarshalBinary()
	require.NoError(t, err)
	srv := newBridge(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, hex.EncodeToString(ack))
	})
	dialer := transport.NewDialer().Register(transport.KindHTTP, httpbridge.Dial)

	// when:
	session, err := dialer.Dial(transport.Config{Kind: transport.KindHTTP, URL: srv.URL, Session: "3"})

	// then:
	require.NoError(t, err)
	require.Equal(t, "3", session.ID())
	require.NoError(t, session.Send(context.Background(), wire.MessageTypeToken, wire.MessageTypeTxItemAck, wire.Token{AssetNameBytes: "74"}))
	require.NoError(t, session.Close())
}

func TestDial_WithoutSession(t *testing.T) {
	// when:
	_, err := httpbridge.Dial(transport.Config{Kind: transport.KindHTTP, URL: "http://localhost:21325"})

	// then:
	require.ErrorIs(t, err, httpbridge.ErrMissingSession)
}
