package includedir

import "github.com/meigma/includedir/internal/tabletype"

// Compression identifies the codec used to encode an entry's payload.
type Compression = tabletype.Compression

// Entry is one embedded file.
type Entry = tabletype.Entry

// Compression constants.
const (
	CompressionNone = tabletype.CompressionNone
	CompressionGzip = tabletype.CompressionGzip
	CompressionZstd = tabletype.CompressionZstd
)

// ParseCompression parses a compression name ("none", "gzip", "zstd").
var ParseCompression = tabletype.ParseCompression
