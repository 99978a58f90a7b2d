package codegen

import "errors"

// Sentinel errors. Each is wrapped with the offending path.
var (
	// ErrMissingSource is returned when an input file cannot be found,
	// opened, or read.
	ErrMissingSource = errors.New("codegen: missing source file")

	// ErrScratchDir is returned when the scratch location for a compressed
	// intermediate cannot be prepared.
	ErrScratchDir = errors.New("codegen: scratch directory")

	// ErrEncode is returned when streaming a file through its encoder fails.
	ErrEncode = errors.New("codegen: encode failed")

	// ErrOutputWrite is returned when the generated artifact or depfile
	// cannot be written.
	ErrOutputWrite = errors.New("codegen: write output")

	// ErrMissingEnvironment is returned when a required build input, such
	// as the project root or output directory, is not configured.
	ErrMissingEnvironment = errors.New("codegen: missing required environment")

	// ErrInvalidName is returned for table names, package names, or output
	// names that cannot be used.
	ErrInvalidName = errors.New("codegen: invalid name")

	// ErrInvalidManifest is returned when a generator manifest is malformed.
	ErrInvalidManifest = errors.New("codegen: invalid manifest")
)
