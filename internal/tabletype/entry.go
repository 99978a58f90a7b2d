package tabletype

import (
	_ "crypto/sha256" // registers the canonical digest algorithm

	"github.com/opencontainers/go-digest"
)

// Entry is one embedded file.
type Entry struct {
	// Compression is the codec used to encode Data.
	Compression Compression

	// Data is the stored payload: the original bytes for CompressionNone,
	// the encoded stream otherwise.
	Data string

	// Size is the length of the decoded content.
	Size int64

	// Digest is the digest of the decoded content.
	// An empty digest disables verification.
	Digest digest.Digest
}
