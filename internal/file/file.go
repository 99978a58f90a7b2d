package file

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/includedir/internal/codec"
	"github.com/meigma/includedir/internal/pathutil"
	"github.com/meigma/includedir/internal/tabletype"
)

// File implements fs.File for streaming reads of an embedded entry.
//
// The decoder is created on the first Read, so decoding errors surface
// lazily. When verification is enabled the digest is checked once the
// stream reaches EOF.
type File struct {
	name   string
	entry  tabletype.Entry
	verify bool

	rc       io.ReadCloser
	verifier digest.Verifier

	initialized bool
	initErr     error
	verified    bool
	verifyErr   error
	closed      bool
}

// Interface compliance.
var _ fs.File = (*File)(nil)

// Open returns a File streaming the decoded content of entry.
func Open(name string, entry tabletype.Entry, verify bool) *File {
	return &File{
		name:   name,
		entry:  entry,
		verify: verify,
	}
}

// Read implements io.Reader.
func (f *File) Read(p []byte) (int, error) {
	if f.closed {
		return 0, &fs.PathError{Op: "read", Path: f.name, Err: fs.ErrClosed}
	}
	if err := f.init(); err != nil {
		return 0, err
	}
	if f.verifyErr != nil {
		return 0, f.verifyErr
	}
	if len(p) == 0 {
		return 0, nil
	}

	n, err := f.rc.Read(p)
	if n > 0 && f.verifier != nil {
		_, _ = f.verifier.Write(p[:n]) //nolint:errcheck // digest writes never fail
	}

	if err == io.EOF {
		if verifyErr := f.verifyDigest(); verifyErr != nil {
			return n, verifyErr
		}
		return n, io.EOF
	}
	if err != nil {
		return n, fmt.Errorf("read %s: %w: %w", f.name, tabletype.ErrDecompression, err)
	}
	return n, nil
}

// Stat returns file info.
func (f *File) Stat() (fs.FileInfo, error) {
	return NewInfo(f.entry, pathutil.Base(f.name)), nil
}

// Close releases the decoder. It does not drain or verify unread content.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if f.rc == nil {
		return nil
	}
	err := f.rc.Close()
	f.rc = nil
	return err
}

func (f *File) init() error {
	if f.initialized {
		return f.initErr
	}
	f.initialized = true

	if f.verify && f.entry.Digest != "" {
		if err := f.entry.Digest.Validate(); err != nil {
			f.initErr = fmt.Errorf("read %s: %w: %w", f.name, tabletype.ErrHashMismatch, err)
			return f.initErr
		}
		f.verifier = f.entry.Digest.Verifier()
	}

	rc, err := codec.NewReader(strings.NewReader(f.entry.Data), f.entry.Compression)
	if err != nil {
		if errors.Is(err, tabletype.ErrUnknownCompression) {
			f.initErr = fmt.Errorf("read %s: %w", f.name, err)
		} else {
			f.initErr = fmt.Errorf("read %s: %w: %w", f.name, tabletype.ErrDecompression, err)
		}
		return f.initErr
	}
	f.rc = rc
	return nil
}

func (f *File) verifyDigest() error {
	if f.verified {
		return f.verifyErr
	}
	f.verified = true
	if f.verifier != nil && !f.verifier.Verified() {
		f.verifyErr = fmt.Errorf("read %s: %w", f.name, tabletype.ErrHashMismatch)
	}
	return f.verifyErr
}
