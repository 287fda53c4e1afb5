package testabilities

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TransmissionObserverMockExpectations defines the expected behavior of the TransmissionObserverMock during a test.
type TransmissionObserverMockExpectations struct {
	// ObserveCall indicates whether ObserveTransmission is expected to be called.
	ObserveCall bool

	// Failed indicates whether the observed transmission is expected to have failed.
	Failed bool
}

// TransmissionObserverMock records the outcome of observed transmissions.
type TransmissionObserverMock struct {
	t            *testing.T
	expectations TransmissionObserverMockExpectations

	mu       sync.Mutex
	called   bool
	observed error
}

// ObserveTransmission records the transmission outcome.
func (m *TransmissionObserverMock) ObserveTransmission(err error, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called = true
	m.observed = err
}

// AssertCalled verifies that ObserveTransmission was called as expected and saw the expected outcome.
func (m *TransmissionObserverMock) AssertCalled() {
	m.t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	require.Equal(m.t, m.expectations.ObserveCall, m.called, "Discrepancy between expected and actual ObserveTransmission call")
	if m.called {
		require.Equal(m.t, m.expectations.Failed, m.observed != nil, "Discrepancy between expected and actual transmission outcome")
	}
}

// NewTransmissionObserverMock creates a new instance of TransmissionObserverMock with the given expectations.
func NewTransmissionObserverMock(t *testing.T, expectations TransmissionObserverMockExpectations) *TransmissionObserverMock {
	return &TransmissionObserverMock{
		t:            t,
		expectations: expectations,
	}
}
