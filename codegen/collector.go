package codegen

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/includedir"
	"github.com/meigma/includedir/internal/codec"
	"github.com/meigma/includedir/internal/file"
)

// Source describes where the payload for one key lives until emission.
type Source struct {
	// Compression is the codec the payload at Location is encoded with.
	Compression includedir.Compression

	// Location is the original input path for uncompressed entries and
	// the absolute scratch path of the encoded copy otherwise.
	Location string

	// Size is the decoded length, or -1 if it is computed at emission.
	Size int64

	// Digest is the digest of the decoded content, or empty if it is
	// computed at emission.
	Digest digest.Digest
}

// Collector accumulates the files to embed.
//
// A Collector is not safe for concurrent use.
type Collector struct {
	cfg         Config
	sources     map[string]Source
	deps        map[string]struct{}
	scratch     map[string]string // scratch path -> owning key
	skip        []SkipCompressionFunc
	hook        func(string)
	logger      *slog.Logger
	ownsScratch bool
	buf         []byte
}

// NewCollector creates a Collector for cfg. It fails with
// ErrMissingEnvironment if the project root or output directory is unset.
//
// If cfg.ScratchDir is empty a temporary scratch directory is created;
// call Close to remove it once the output has been emitted.
func NewCollector(cfg Config, opts ...CollectOption) (*Collector, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	c := &Collector{
		sources: make(map[string]Source),
		deps:    make(map[string]struct{}),
		scratch: make(map[string]string),
		buf:     make([]byte, 32*1024),
	}
	for _, opt := range opts {
		opt(c)
	}

	if cfg.ScratchDir == "" {
		dir, err := os.MkdirTemp("", "includedir-scratch-*")
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScratchDir, err)
		}
		cfg.ScratchDir = dir
		c.ownsScratch = true
	}
	c.cfg = cfg
	return c, nil
}

// log returns the logger, falling back to a discard logger if nil.
func (c *Collector) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// Config returns the normalized configuration.
func (c *Collector) Config() Config {
	return c.cfg
}

// Close removes the scratch directory if the Collector created it.
// Sources recorded with scratch locations are unusable afterwards.
func (c *Collector) Close() error {
	if !c.ownsScratch {
		return nil
	}
	c.ownsScratch = false
	return os.RemoveAll(c.cfg.ScratchDir)
}

// AddFile records path under the key NormalizeKey(path).
//
// Relative paths resolve against the project root. With CompressionNone
// the source path is recorded as is. Otherwise the file is encoded at the
// codec's best compression into the scratch directory, mirroring its
// relative path, and the scratch copy is recorded. Adding a key twice
// replaces the earlier entry.
func (c *Collector) AddFile(path string, compression includedir.Compression) error {
	key := includedir.NormalizeKey(path)
	src := c.cfg.resolve(path)
	c.declareDependency(src)

	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMissingSource, path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s: not a regular file", ErrMissingSource, path)
	}

	if compression != includedir.CompressionNone && shouldSkip(key, info, c.skip) {
		c.log().Debug("skipping compression", "key", key, "compression", compression.String())
		compression = includedir.CompressionNone
	}

	source := Source{Compression: includedir.CompressionNone, Location: path, Size: -1}
	if compression != includedir.CompressionNone {
		source, err = c.compress(key, path, src, compression)
		if err != nil {
			return err
		}
	}

	if _, dup := c.sources[key]; dup {
		c.log().Debug("replacing entry", "key", key)
	}
	c.sources[key] = source
	c.log().Debug("added file", "key", key, "compression", compression.String())
	return nil
}

// AddDirectory adds every regular file below path, following symbolic
// links. Keys are path joined with each file's relative path. The walk
// stops at the first error.
func (c *Collector) AddDirectory(path string, compression includedir.Compression) error {
	return c.walk(c.cfg.resolve(path), path, make(map[string]struct{}), func(name string) error {
		return c.AddFile(name, compression)
	})
}

// MustAddFile is like AddFile but aborts the process on error.
// It returns c so calls can be chained.
func (c *Collector) MustAddFile(path string, compression includedir.Compression) *Collector {
	if err := c.AddFile(path, compression); err != nil {
		fatal(err)
	}
	return c
}

// MustAddDirectory is like AddDirectory but aborts the process on error.
// It returns c so calls can be chained.
func (c *Collector) MustAddDirectory(path string, compression includedir.Compression) *Collector {
	if err := c.AddDirectory(path, compression); err != nil {
		fatal(err)
	}
	return c
}

// Sources returns a copy of the collected key to source mapping.
func (c *Collector) Sources() map[string]Source {
	return maps.Clone(c.sources)
}

// Len returns the number of collected keys.
func (c *Collector) Len() int {
	return len(c.sources)
}

// Dependencies returns every file and directory visited so far, sorted.
func (c *Collector) Dependencies() []string {
	return slices.Sorted(maps.Keys(c.deps))
}

func (c *Collector) declareDependency(path string) {
	if _, ok := c.deps[path]; ok {
		return
	}
	c.deps[path] = struct{}{}
	if c.hook != nil {
		c.hook(path)
	}
}

// compress encodes src into the scratch directory and returns the source
// pointing at the encoded copy. Partial output is removed on failure.
func (c *Collector) compress(key, path, src string, compression includedir.Compression) (Source, error) {
	rel, err := scratchRel(path)
	if err != nil {
		return Source{}, fmt.Errorf("%w: %w", ErrScratchDir, err)
	}
	rel = c.claimScratch(key, rel)

	in, err := os.Open(src) //nolint:gosec // inputs are chosen by the build author
	if err != nil {
		return Source{}, fmt.Errorf("%w: %s: %w", ErrMissingSource, path, err)
	}
	defer in.Close()

	if err := os.MkdirAll(c.cfg.ScratchDir, 0o750); err != nil {
		return Source{}, fmt.Errorf("%w: %w", ErrScratchDir, err)
	}
	root, err := os.OpenRoot(c.cfg.ScratchDir)
	if err != nil {
		return Source{}, fmt.Errorf("%w: %w", ErrScratchDir, err)
	}
	defer root.Close()

	if dir := filepath.Dir(rel); dir != "." {
		if err := root.MkdirAll(dir, 0o750); err != nil {
			return Source{}, fmt.Errorf("%w: %s: %w", ErrScratchDir, dir, err)
		}
	}

	out, err := root.Create(rel)
	if err != nil {
		return Source{}, fmt.Errorf("%w: %s: %w", ErrScratchDir, rel, err)
	}

	size, sum, err := encodeFile(out, in, compression, c.buf)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = root.Remove(rel)
		return Source{}, fmt.Errorf("%w: %s: %w", ErrEncode, path, err)
	}

	return Source{
		Compression: compression,
		Location:    filepath.Join(c.cfg.ScratchDir, rel),
		Size:        size,
		Digest:      sum,
	}, nil
}

// claimScratch reserves rel for key. Distinct keys can map to the same
// scratch path ("data/x" and "./data/x"), so a path owned by another key
// gets a numeric suffix.
func (c *Collector) claimScratch(key, rel string) string {
	candidate := rel
	for n := 1; ; n++ {
		owner, taken := c.scratch[candidate]
		if !taken || owner == key {
			c.scratch[candidate] = key
			return candidate
		}
		candidate = fmt.Sprintf("%s~%d", rel, n)
	}
}

// encodeFile streams r through the encoder for compression into w.
// Returns the number of input bytes and their digest.
func encodeFile(w io.Writer, r io.Reader, compression includedir.Compression, buf []byte) (int64, digest.Digest, error) {
	bw := bufio.NewWriter(w)
	enc, err := codec.NewWriter(bw, compression)
	if err != nil {
		return 0, "", err
	}

	digester := digest.Canonical.Digester()
	cr := &file.CountingReader{R: bufio.NewReader(r)}

	// Stream: file → TeeReader(digester) → encoder → bufio → scratch file
	if _, err := io.CopyBuffer(enc, io.TeeReader(cr, digester.Hash()), buf); err != nil {
		_ = enc.Close()
		return 0, "", err
	}
	if err := enc.Close(); err != nil {
		return 0, "", fmt.Errorf("close %s encoder: %w", compression, err)
	}
	if err := bw.Flush(); err != nil {
		return 0, "", err
	}
	return cr.N, digester.Digest(), nil
}
