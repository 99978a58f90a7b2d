package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/meigma/includedir/internal/tabletype"
)

// DefaultMaxDecoderMemory bounds the memory a zstd decoder may allocate (256MB).
const DefaultMaxDecoderMemory = 256 << 20

// maxPrealloc caps the buffer DecodeAll reserves up front from a size hint.
const maxPrealloc = 64 << 20

// NewReader returns a reader that decodes r according to c.
//
// For gzip the header is read immediately, so a malformed header fails here.
// Other corruption surfaces from Read. Close releases decoder resources; it
// does not close r.
func NewReader(r io.Reader, c tabletype.Compression) (io.ReadCloser, error) {
	switch c {
	case tabletype.CompressionNone:
		return io.NopCloser(r), nil
	case tabletype.CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return zr, nil
	case tabletype.CompressionZstd:
		dec, err := zstd.NewReader(r,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(true),
			zstd.WithDecoderMaxMemory(DefaultMaxDecoderMemory),
		)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("%w: %d", tabletype.ErrUnknownCompression, c)
	}
}

// DecodeAll decodes data in full. sizeHint is the expected decoded length;
// pass a negative value when unknown.
func DecodeAll(data []byte, c tabletype.Compression, sizeHint int64) ([]byte, error) {
	if c == tabletype.CompressionNone {
		return data, nil
	}

	rc, err := NewReader(bytes.NewReader(data), c)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var buf bytes.Buffer
	if sizeHint > 0 && sizeHint <= maxPrealloc {
		buf.Grow(int(sizeHint))
	}
	if _, err := buf.ReadFrom(rc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
