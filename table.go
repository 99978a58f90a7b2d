package includedir

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"maps"
	"slices"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/includedir/internal/codec"
	"github.com/meigma/includedir/internal/file"
)

// Table provides read-only access to embedded files.
//
// A Table is immutable after New returns. All methods are safe for
// concurrent use without additional locking.
type Table struct {
	entries map[string]Entry
	keys    []string // sorted
	verify  bool
	logger  *slog.Logger
}

// New creates a Table over entries. Generated code calls New with a map
// literal; the map is copied, so later changes to it are not observed.
func New(entries map[string]Entry, opts ...Option) *Table {
	t := &Table{
		entries: maps.Clone(entries),
		verify:  true,
	}
	if t.entries == nil {
		t.entries = map[string]Entry{}
	}
	t.keys = slices.Sorted(maps.Keys(t.entries))
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// WithOptions returns a Table sharing t's entries with opts applied on top
// of t's configuration. t itself is not modified.
func (t *Table) WithOptions(opts ...Option) *Table {
	clone := *t
	for _, opt := range opts {
		opt(&clone)
	}
	return &clone
}

// log returns the logger, falling back to a discard logger if nil.
func (t *Table) log() *slog.Logger {
	if t.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return t.logger
}

// FileNames returns a sequence over every key in the table.
// Each call yields a fresh sequence over the same fixed key set.
func (t *Table) FileNames() iter.Seq[string] {
	return slices.Values(t.keys)
}

// Len returns the number of entries in the table.
func (t *Table) Len() int {
	return len(t.keys)
}

// IsAvailable reports whether key, after NormalizeKey, is in the table.
func (t *Table) IsAvailable(key string) bool {
	_, ok := t.lookup(key)
	return ok
}

// GetRaw returns the compression tag and a copy of the stored payload
// without decoding it.
func (t *Table) GetRaw(key string) (Compression, []byte, error) {
	entry, ok := t.lookup(key)
	if !ok {
		return CompressionNone, nil, fmt.Errorf("get raw %s: %w", key, ErrNotFound)
	}
	return entry.Compression, []byte(entry.Data), nil
}

// Get returns the decoded content for key.
//
// Get returns ErrNotFound if key is absent, ErrDecompression if the payload
// is not valid for its compression tag, and ErrHashMismatch if the decoded
// content does not match its recorded digest.
func (t *Table) Get(key string) ([]byte, error) {
	entry, ok := t.lookup(key)
	if !ok {
		return nil, fmt.Errorf("get %s: %w", key, ErrNotFound)
	}
	data, err := t.decode(entry)
	if err != nil {
		t.log().Debug("decode failed", "key", key, "compression", entry.Compression.String(), "error", err)
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return data, nil
}

// Read returns a stream of the decoded content for key.
//
// A missing key fails immediately with ErrNotFound. Decoding and
// verification errors are returned from Read as the stream is consumed;
// the digest is checked when the stream reaches EOF.
func (t *Table) Read(key string) (io.ReadCloser, error) {
	name := NormalizeKey(key)
	entry, ok := t.entries[name]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", key, ErrNotFound)
	}
	return file.Open(name, entry, t.verify), nil
}

func (t *Table) lookup(key string) (Entry, bool) {
	entry, ok := t.entries[NormalizeKey(key)]
	return entry, ok
}

// decode returns a fresh, fully decoded copy of entry's content.
func (t *Table) decode(entry Entry) ([]byte, error) {
	data, err := codec.DecodeAll([]byte(entry.Data), entry.Compression, entry.Size)
	if err != nil {
		if errors.Is(err, ErrUnknownCompression) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrDecompression, err)
	}
	if t.verify {
		if err := verifyDigest(entry.Digest, data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func verifyDigest(want digest.Digest, data []byte) error {
	if want == "" {
		return nil
	}
	if err := want.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrHashMismatch, err)
	}
	if got := want.Algorithm().FromBytes(data); got != want {
		return fmt.Errorf("%w: got %s, want %s", ErrHashMismatch, got, want)
	}
	return nil
}
