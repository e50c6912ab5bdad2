package Placements

import "go.uber.org/zap"

type options struct {
	lg     *zap.Logger
	rank   bool
	degree int
}

// Option configures a Tree at construction.
type Option func(*options)

// WithLogger sets the logger. Construction is logged at info level, updates at
// debug level. The default logger discards everything.
func WithLogger(lg *zap.Logger) Option {
	return func(o *options) {
		if lg != nil {
			o.lg = lg
		}
	}
}

// WithRanking keeps every complete placement in a btree of the given degree so
// that Best can answer in O(log) time. Each recomputed leaf then costs an extra
// O(log) btree update. A degree below 2 selects the default.
func WithRanking(degree int) Option {
	return func(o *options) {
		o.rank, o.degree = true, degree
	}
}

func newOptions(opts []Option) options {
	o := options{lg: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
