// Package prototype provides the clone capability shared by every template
// type in protoreg and a name-keyed registry that manufactures fresh copies of
// registered prototypes on demand.
//
// Each concrete prototype decides per field whether a clone owns an
// independent copy or aliases the original's data. The registry never hands
// out its canonical instances; every successful lookup returns a new value.
package prototype

import "time"

// Prototype is implemented by values that can produce an independent copy of
// themselves. Clone must return a new instance of the same concrete kind and
// must not mutate the receiver.
type Prototype[T any] interface {
	Clone() T
}

// Logger is the minimal structured logger used by the registry.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// MetricsRecorder receives the outcome of each registry operation.
type MetricsRecorder interface {
	Observe(operation string, success bool, duration time.Duration)
}

// Registry operation names reported to MetricsRecorder and Logger.
const (
	OpRegister   = "register"
	OpUnregister = "unregister"
	OpCreate     = "create"
)

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

type noopMetrics struct{}

func (noopMetrics) Observe(string, bool, time.Duration) {}

// Option customises a Registry.
type Option func(*options)

type options struct {
	logger  Logger
	metrics MetricsRecorder
	now     func() time.Time
}

func defaultOptions() options {
	return options{
		logger:  noopLogger{},
		metrics: noopMetrics{},
		now:     time.Now,
	}
}

// WithLogger sets the logger used for registry events. A nil logger is ignored.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics sets the recorder notified after every operation. A nil
// recorder is ignored.
func WithMetrics(m MetricsRecorder) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithClock overrides the time source used to measure operation durations.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
