package commands

import (
	"github.com/4chain-ag/go-hw-outputs/pkg/transport"
	"github.com/4chain-ag/go-hw-outputs/pkg/transport/httpbridge"
	"github.com/4chain-ag/go-hw-outputs/pkg/transport/wsbridge"
	"github.com/gookit/slog"
)

// dialDevice opens a session with the device bridge described by cfg.
func dialDevice(cfg transport.Config) (*transport.Session, error) {
	dialer := transport.NewDialer().
		Register(transport.KindHTTP, httpbridge.Dial).
		Register(transport.KindWebsocket, wsbridge.Dial)

	session, err := dialer.Dial(cfg)
	if err != nil {
		return nil, err
	}

	slog.WithFields(slog.M{
		"kind":    cfg.Kind,
		"url":     cfg.URL,
		"session": session.ID(),
	}).Info("device bridge connected")
	return session, nil
}
