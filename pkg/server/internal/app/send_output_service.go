package app

import (
	"context"
	"time"

	"github.com/4chain-ag/go-hw-outputs/pkg/core/outputs"
	"github.com/4chain-ag/go-hw-outputs/pkg/core/wire"
	"github.com/google/uuid"
	"github.com/gookit/slog"
)

// SendOutputProvider delivers single messages to the signing device.
type SendOutputProvider interface {
	outputs.Sender
}

// TransmissionObserver is notified about the outcome of every transmission.
type TransmissionObserver interface {
	ObserveTransmission(err error, duration time.Duration)
}

// SendOutputResult describes a completed transmission.
type SendOutputResult struct {
	TransmissionID string
	MessagesSent   int
}

// SendOutputService transforms raw outputs and transmits them to the device
// through the configured SendOutputProvider.
type SendOutputService struct {
	provider SendOutputProvider
	observer TransmissionObserver
	timeout  time.Duration
}

// SendOutput validates the raw output and transmits it. The whole transmission
// is bounded by the service timeout. Validation failures are reported before
// anything is sent; device failures abort the transmission at the failing message.
func (s *SendOutputService) SendOutput(ctx context.Context, raw map[string]any) (*SendOutputResult, error) {
	output, err := outputs.TransformOutput(raw)
	if err != nil {
		return nil, translateTransmissionError(err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var sent int
	counting := outputs.SenderFunc(func(ctx context.Context, messageType, ackType wire.MessageType, payload wire.Message) error {
		if err := s.provider.Send(ctx, messageType, ackType, payload); err != nil {
			return err
		}
		sent++
		return nil
	})

	id := uuid.NewString()
	log := slog.WithFields(slog.M{"transmission_id": id})
	log.Info("output transmission started")

	start := time.Now()
	err = outputs.SendOutput(ctx, counting, output)
	s.observer.ObserveTransmission(err, time.Since(start))
	if err != nil {
		log.Errorf("output transmission failed after %d messages: %v", sent, err)
		return nil, translateTransmissionError(err)
	}

	log.Infof("output transmission completed, %d messages acknowledged", sent)
	return &SendOutputResult{TransmissionID: id, MessagesSent: sent}, nil
}

// SendOutputServiceOption configures a SendOutputService.
type SendOutputServiceOption func(*SendOutputService)

// WithTransmissionObserver sets the observer notified about every transmission.
func WithTransmissionObserver(observer TransmissionObserver) SendOutputServiceOption {
	return func(s *SendOutputService) {
		if observer != nil {
			s.observer = observer
		}
	}
}

// WithTransmissionTimeout bounds a single transmission. Zero disables the bound.
func WithTransmissionTimeout(timeout time.Duration) SendOutputServiceOption {
	return func(s *SendOutputService) {
		s.timeout = timeout
	}
}

// NewSendOutputService creates a new SendOutputService with the given provider.
// Panics if the provider is nil.
func NewSendOutputService(provider SendOutputProvider, opts ...SendOutputServiceOption) *SendOutputService {
	if provider == nil {
		panic("send output service provider is nil")
	}

	s := &SendOutputService{provider: provider, observer: noopObserver{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type noopObserver struct{}

func (noopObserver) ObserveTransmission(error, time.Duration) {}
