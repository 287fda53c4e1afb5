package transport

import (
	"fmt"
	"time"
)

// Kind names a bridge connector.
type Kind string

const (
	KindHTTP      Kind = "http"
	KindWebsocket Kind = "websocket"
)

// Config describes how to reach the device bridge.
type Config struct {
	Kind           Kind          `mapstructure:"kind"`
	URL            string        `mapstructure:"url"`
	Session        string        `mapstructure:"session"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxPayloadSize int           `mapstructure:"max_payload_size"`
}

// DialFunc opens a connection for the given config.
type DialFunc func(cfg Config) (Conn, error)

// Dialer opens sessions through the connector registered for each kind.
type Dialer struct {
	connectors map[Kind]DialFunc
}

// NewDialer returns a dialer with no connectors.
func NewDialer() *Dialer {
	return &Dialer{connectors: make(map[Kind]DialFunc)}
}

// Register binds a connector to kind, replacing any previous one.
func (d *Dialer) Register(kind Kind, dial DialFunc) *Dialer {
	d.connectors[kind] = dial
	return d
}

// UnsupportedKindError is returned for a kind without a registered connector.
type UnsupportedKindError struct {
	Kind Kind
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported device transport kind %q", string(e.Kind))
}

// Dial opens a connection and wraps it in a Session configured from cfg.
func (d *Dialer) Dial(cfg Config) (*Session, error) {
	dial, ok := d.connectors[cfg.Kind]
	if !ok {
		return nil, &UnsupportedKindError{Kind: cfg.Kind}
	}
	conn, err := dial(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to device bridge %s: %w", cfg.URL, err)
	}
	return NewSession(conn,
		WithSessionID(cfg.Session),
		WithTimeout(cfg.Timeout),
		WithMaxPayloadSize(cfg.MaxPayloadSize),
	), nil
}
