// Package httpbridge talks to a device bridge daemon over HTTP. Every frame is
// posted hex encoded to {url}/call/{session} and the reply body carries the
// device's answer frame, hex encoded as well.
package httpbridge

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/4chain-ag/go-hw-outputs/pkg/core/wire"
	"github.com/4chain-ag/go-hw-outputs/pkg/transport"
	"github.com/bsv-blockchain/go-sdk/util"
	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds a single bridge call when the config gives none.
const DefaultTimeout = 30 * time.Second

// ErrMissingSession is returned when no bridge session is configured.
var ErrMissingSession = errors.New("bridge session is not set")

// Client is a transport.Conn backed by the bridge HTTP API.
type Client struct {
	client         *resty.Client
	session        string
	maxPayloadSize int
}

// Option configures a Client.
type Option func(*Client)

// WithRestyClient replaces the underlying HTTP client.
func WithRestyClient(client *resty.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithMaxPayloadSize limits the size of accepted reply payloads.
func WithMaxPayloadSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.maxPayloadSize = size
		}
	}
}

// New returns a client calling the bridge at baseURL within the given session.
func New(baseURL, session string, opts ...Option) *Client {
	c := &Client{
		client:         resty.New().SetTimeout(DefaultTimeout),
		session:        session,
		maxPayloadSize: wire.DefaultMaxPayloadSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	return c
}

// Dial builds a client from the transport config.
func Dial(cfg transport.Config) (transport.Conn, error) {
	if cfg.Session == "" {
		return nil, ErrMissingSession
	}
	client := resty.New().SetTimeout(DefaultTimeout)
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}
	return New(cfg.URL, cfg.Session, WithRestyClient(client), WithMaxPayloadSize(cfg.MaxPayloadSize)), nil
}

// Exchange posts the request frame and decodes the reply frame.
func (c *Client) Exchange(ctx context.Context, request wire.Frame) (wire.Frame, error) {
	body, err := request.MarshalBinary()
	if err != nil {
		return wire.Frame{}, err
	}

	res, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/plain").
		SetPathParam("session", c.session).
		SetBody(hex.EncodeToString(body)).
		Post("/call/{session}")
	if err != nil {
		return wire.Frame{}, err
	}
	if res.StatusCode() != http.StatusOK {
		return wire.Frame{}, &util.HTTPError{
			StatusCode: res.StatusCode(),
			Err:        fmt.Errorf("device bridge call failed: %s", strings.TrimSpace(res.String())),
		}
	}

	raw, err := hex.DecodeString(strings.TrimSpace(res.String()))
	if err != nil {
		return wire.Frame{}, fmt.Errorf("device bridge replied with invalid hex: %w", err)
	}
	return wire.ParseFrame(raw, c.maxPayloadSize)
}

// Close is a no-op: the bridge session outlives the client.
func (c *Client) Close() error { return nil }
