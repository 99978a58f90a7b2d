package codegen

import "log/slog"

// EmitOption configures an Emitter.
type EmitOption func(*Emitter)

// EmitWithPackage sets the package clause of the generated file.
// Defaults to "main".
func EmitWithPackage(name string) EmitOption {
	return func(e *Emitter) {
		e.pkg = name
	}
}

// EmitWithFilter adds exclusion suffixes. An entry is left out when its
// resolved source path ends with any of them. Empty strings are ignored.
func EmitWithFilter(suffixes ...string) EmitOption {
	return func(e *Emitter) {
		e.filter = append(e.filter, suffixes...)
	}
}

// EmitWithDepfile controls whether Build writes a Makefile-style
// dependency file next to the generated file.
func EmitWithDepfile(enabled bool) EmitOption {
	return func(e *Emitter) {
		e.depfile = enabled
	}
}

// EmitWithLogger sets a logger for emission events.
// If not set, logging is disabled.
func EmitWithLogger(logger *slog.Logger) EmitOption {
	return func(e *Emitter) {
		e.logger = logger
	}
}
