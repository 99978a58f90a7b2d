package tabletype

import (
	"errors"
	"fmt"
	"io/fs"
)

// Sentinel errors for table operations.
var (
	// ErrNotFound is returned when a key is not present in the table.
	// It matches fs.ErrNotExist.
	ErrNotFound = fmt.Errorf("includedir: key not found: %w", fs.ErrNotExist)

	// ErrDecompression is returned when a payload cannot be decoded.
	ErrDecompression = errors.New("includedir: decompression failed")

	// ErrHashMismatch is returned when decoded content does not match its digest.
	ErrHashMismatch = errors.New("includedir: hash verification failed")

	// ErrUnknownCompression is returned for compression tags the codec does not know.
	ErrUnknownCompression = errors.New("includedir: unknown compression")
)
