package includedir

import "github.com/meigma/includedir/internal/tabletype"

// Sentinel errors re-exported from internal/tabletype.
var (
	// ErrNotFound is returned when a key is not present in the table.
	// errors.Is(err, fs.ErrNotExist) also reports true for it.
	ErrNotFound = tabletype.ErrNotFound

	// ErrDecompression is returned when a stored payload is not valid data
	// for its compression tag.
	ErrDecompression = tabletype.ErrDecompression

	// ErrHashMismatch is returned when decoded content does not match the
	// digest recorded at generation time.
	ErrHashMismatch = tabletype.ErrHashMismatch

	// ErrUnknownCompression is returned for compression tags this version
	// cannot decode.
	ErrUnknownCompression = tabletype.ErrUnknownCompression
)
