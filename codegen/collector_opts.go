package codegen

import "log/slog"

// CollectOption configures a Collector.
type CollectOption func(*Collector)

// CollectWithLogger sets a logger for collection events.
// If not set, logging is disabled.
func CollectWithLogger(logger *slog.Logger) CollectOption {
	return func(c *Collector) {
		c.logger = logger
	}
}

// CollectWithSkipCompression adds predicates that store a file uncompressed
// even when compression was requested. If any predicate returns true the
// entry is recorded as CompressionNone, so its tag still matches its bytes.
func CollectWithSkipCompression(fns ...SkipCompressionFunc) CollectOption {
	return func(c *Collector) {
		c.skip = append(c.skip, fns...)
	}
}

// CollectWithDependencyHook registers fn to be called once for every file
// and directory the Collector visits. Build tools use it to re-run
// generation when an input changes.
func CollectWithDependencyHook(fn func(path string)) CollectOption {
	return func(c *Collector) {
		c.hook = fn
	}
}
