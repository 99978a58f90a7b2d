package codec

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/meigma/includedir/internal/tabletype"
)

// NewWriter returns a writer that encodes everything written to it with c
// and forwards the encoded stream to w. Close flushes the trailer; it does
// not close w.
func NewWriter(w io.Writer, c tabletype.Compression) (io.WriteCloser, error) {
	switch c {
	case tabletype.CompressionNone:
		return nopWriteCloser{w}, nil
	case tabletype.CompressionGzip:
		zw, err := gzip.NewWriterLevel(w, gzip.BestCompression)
		if err != nil {
			return nil, fmt.Errorf("create gzip encoder: %w", err)
		}
		return zw, nil
	case tabletype.CompressionZstd:
		enc, err := zstd.NewWriter(w,
			zstd.WithEncoderLevel(zstd.SpeedBestCompression),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			return nil, fmt.Errorf("create zstd encoder: %w", err)
		}
		return enc, nil
	default:
		return nil, fmt.Errorf("%w: %d", tabletype.ErrUnknownCompression, c)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
