package reactive

import (
	"log/slog"
	"time"
)

// OnErrorFunc receives errors returned by effect, binding and handler
// functions.
type OnErrorFunc func(from NodeID, err error)

type Option func(rs *ReactiveSystem)

func WithLogger(logger *slog.Logger) Option {
	return func(rs *ReactiveSystem) {
		if logger != nil {
			rs.logger = logger
		}
	}
}

func WithErrorHandler(onError OnErrorFunc) Option {
	return func(rs *ReactiveSystem) {
		rs.onError = onError
	}
}

// WithClock sets the time source used to start animations.
func WithClock(now func() time.Time) Option {
	return func(rs *ReactiveSystem) {
		if now != nil {
			rs.now = now
		}
	}
}

func WithParameters(params ParameterStore) Option {
	return func(rs *ReactiveSystem) {
		rs.params = params
	}
}

func WithStatusSource(status StatusSource) Option {
	return func(rs *ReactiveSystem) {
		rs.status = status
	}
}

func WithElementTree(tree ElementTree) Option {
	return func(rs *ReactiveSystem) {
		rs.tree = tree
	}
}
