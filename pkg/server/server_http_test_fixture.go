package server

import (
	"net/http"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// inMemoryTransport hands requests straight to the Fiber app, no listener involved.
type inMemoryTransport struct {
	app *fiber.App
}

func (tr inMemoryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return tr.app.Test(req, -1)
}

// ServerTestFixture runs HTTP requests against a fully wired server held in memory.
type ServerTestFixture struct {
	t   *testing.T
	srv *ServerHTTP
}

// Client returns a Resty client bound to the in-memory server. Transport
// errors fail the test.
func (f *ServerTestFixture) Client() *resty.Client {
	f.t.Helper()

	c := resty.New().SetTransport(inMemoryTransport{app: f.srv.app})
	c.OnError(func(_ *resty.Request, err error) {
		require.NoError(f.t, err, "HTTP request ended with unexpected error")
	})
	return c
}

// AdminClient is Client authorized with the server's admin bearer token, as
// the transmission route requires.
func (f *ServerTestFixture) AdminClient() *resty.Client {
	f.t.Helper()
	return f.Client().SetAuthToken(f.srv.cfg.AdminBearerToken)
}

// NewServerTestFixture builds the server from opts for a single test.
func NewServerTestFixture(t *testing.T, opts ...ServerOption) *ServerTestFixture {
	t.Helper()
	return &ServerTestFixture{t: t, srv: New(opts...)}
}
