package codegen

import (
	"bytes"
	"fmt"
	"go/token"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/includedir"
)

// Emitter turns collected sources into a generated Go file.
type Emitter struct {
	cfg     Config
	name    string
	pkg     string
	filter  []string
	depfile bool
	logger  *slog.Logger
}

// NewEmitter creates an Emitter that declares a table variable called name.
// name and the package name must be valid Go identifiers.
func NewEmitter(cfg Config, name string, opts ...EmitOption) (*Emitter, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}

	e := &Emitter{
		cfg:  cfg,
		name: name,
		pkg:  "main",
	}
	for _, opt := range opts {
		opt(e)
	}

	if !token.IsIdentifier(e.name) {
		return nil, fmt.Errorf("%w: table name %q is not a Go identifier", ErrInvalidName, e.name)
	}
	if !token.IsIdentifier(e.pkg) {
		return nil, fmt.Errorf("%w: package name %q is not a Go identifier", ErrInvalidName, e.pkg)
	}
	return e, nil
}

// log returns the logger, falling back to a discard logger if nil.
func (e *Emitter) log() *slog.Logger {
	if e.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.logger
}

// Entries resolves sources into table entries.
//
// Each location is made absolute against the project root and checked
// against the filter; surviving payloads are read in full under their
// original keys. Uncompressed entries get their size and digest here.
func (e *Emitter) Entries(sources map[string]Source) (map[string]includedir.Entry, error) {
	entries := make(map[string]includedir.Entry, len(sources))
	for _, key := range slices.Sorted(maps.Keys(sources)) {
		src := sources[key]
		location := e.cfg.resolve(src.Location)

		if excluded(location, e.filter) {
			e.log().Debug("filtered entry", "key", key, "location", location)
			continue
		}

		data, err := os.ReadFile(location) //nolint:gosec // inputs are chosen by the build author
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrMissingSource, key, err)
		}

		entry := includedir.Entry{
			Compression: src.Compression,
			Data:        string(data),
			Size:        max(src.Size, 0),
			Digest:      src.Digest,
		}
		if src.Compression == includedir.CompressionNone {
			entry.Size = int64(len(data))
			entry.Digest = digest.FromBytes(data)
		}
		entries[key] = entry
	}
	return entries, nil
}

// WriteFile renders sources and writes the result to outName inside the
// output directory. The file is replaced atomically; on failure no file
// appears under outName. Returns the absolute path written.
func (e *Emitter) WriteFile(outName string, sources map[string]Source) (string, error) {
	if !filepath.IsLocal(outName) {
		return "", fmt.Errorf("%w: output %q must be a local path", ErrInvalidName, outName)
	}

	entries, err := e.Entries(sources)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := e.Render(&buf, entries); err != nil {
		return "", err
	}

	path := filepath.Join(e.cfg.OutDir, outName)
	if err := writeAtomic(path, buf.Bytes()); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrOutputWrite, path, err)
	}

	e.log().Info("wrote table", "name", e.name, "path", path, "entries", len(entries), "bytes", buf.Len())
	return path, nil
}

// writeAtomic writes data to a temporary file next to path and renames it
// into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
