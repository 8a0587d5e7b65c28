package interpret

import "log/slog"

// Option configures the scanner, the transformer, the evaluator and the
// Calculator. Options that do not concern a stage are ignored by it.
type Option func(*options)

type options struct {
	log           *slog.Logger
	strictNumbers bool
	rightAssocPow bool
}

func newOptions(opts []Option) options {
	o := options{log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sends trace records (tokens recognized, values pushed,
// operations computed) to l. A nil logger discards them.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		o.log = l
	}
}

// StrictNumbers rejects numeric literals that are not one valid decimal
// number, e.g. "1.2.3", with a NUMBER_FORMAT_ERROR. Without it the longest
// valid prefix is used.
func StrictNumbers() Option {
	return func(o *options) {
		o.strictNumbers = true
	}
}

// RightAssociativePower groups chains of '^' right to left, so "2^3^2" is
// 512. Without it '^' groups left to right like the other operators.
func RightAssociativePower() Option {
	return func(o *options) {
		o.rightAssocPow = true
	}
}
