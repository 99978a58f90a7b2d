package includedir

import "log/slog"

// Option configures a Table.
type Option func(*Table)

// WithLogger sets a logger for decode diagnostics.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Table) {
		t.logger = logger
	}
}

// WithVerify controls whether decoded content is checked against the
// digest recorded for each entry. Verification is enabled by default.
// Entries without a digest are never verified.
func WithVerify(enabled bool) Option {
	return func(t *Table) {
		t.verify = enabled
	}
}
