package aggregates

import (
	"time"

	"github.com/yungbote/coursecraft-backend/internal/observability"
)

// Hooks receives one ObserveOperation per structure write, plus a conflict or
// retry signal when the mapped error carries that code.
type Hooks interface {
	ObserveOperation(name, status string, dur time.Duration)
	IncConflict(name string)
	IncRetry(name string)
}

type noopHooks struct{}

func (noopHooks) ObserveOperation(string, string, time.Duration) {}
func (noopHooks) IncConflict(string)                             {}
func (noopHooks) IncRetry(string)                                {}

// metricsHooks forwards to the prometheus aggregate series. Metrics methods
// are nil-safe, so a disabled registry just drops the samples.
type metricsHooks struct{ m *observability.Metrics }

func NewObservabilityHooks(m *observability.Metrics) Hooks {
	if m == nil {
		return noopHooks{}
	}
	return metricsHooks{m: m}
}

func (h metricsHooks) ObserveOperation(name, status string, dur time.Duration) {
	h.m.ObserveAggregateOperation(name, status, dur)
}

func (h metricsHooks) IncConflict(name string) { h.m.IncAggregateConflict(name) }
func (h metricsHooks) IncRetry(name string)    { h.m.IncAggregateRetry(name) }
