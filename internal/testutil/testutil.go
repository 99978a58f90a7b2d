// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/includedir/internal/codec"
	"github.com/meigma/includedir/internal/tabletype"
)

// Encode returns data encoded with c.
func Encode(tb testing.TB, data []byte, c tabletype.Compression) []byte {
	tb.Helper()
	var buf bytes.Buffer
	w, err := codec.NewWriter(&buf, c)
	if err != nil {
		tb.Fatalf("create encoder: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		tb.Fatalf("encode: %v", err)
	}
	if err := w.Close(); err != nil {
		tb.Fatalf("close encoder: %v", err)
	}
	return buf.Bytes()
}

// NewEntry builds an entry for data the way the generator would: encoded
// payload, decoded size, and canonical digest.
func NewEntry(tb testing.TB, data []byte, c tabletype.Compression) tabletype.Entry {
	tb.Helper()
	return tabletype.Entry{
		Compression: c,
		Data:        string(Encode(tb, data, c)),
		Size:        int64(len(data)),
		Digest:      digest.FromBytes(data),
	}
}

// WriteTree creates files below root. Keys are slash-separated paths
// relative to root; parent directories are created as needed.
func WriteTree(tb testing.TB, root string, files map[string]string) {
	tb.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			tb.Fatalf("mkdir %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			tb.Fatalf("write %s: %v", name, err)
		}
	}
}
