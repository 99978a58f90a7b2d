package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/meigma/includedir"
)

// DefaultManifestName is the manifest file includedir-gen reads when none
// is given.
const DefaultManifestName = "includedir.yaml"

// Manifest describes one generated table.
type Manifest struct {
	// Name is the Go identifier of the generated table variable.
	Name string `yaml:"name"`

	// Package is the package clause of the generated file. When empty the
	// caller supplies it (includedir-gen uses $GOPACKAGE).
	Package string `yaml:"package"`

	// Output is the generated file name, relative to the output directory.
	Output string `yaml:"output"`

	// Depfile enables writing Output+".d".
	Depfile bool `yaml:"depfile"`

	// Filter lists path suffixes to exclude from the table.
	Filter []string `yaml:"filter"`

	// SkipCompression stores already-compressed formats and files smaller
	// than MinCompressSize uncompressed.
	SkipCompression bool `yaml:"skip_compression"`

	// MinCompressSize is the smallest file compressed when SkipCompression
	// is set.
	MinCompressSize int64 `yaml:"min_compress_size"`

	// Inputs lists the files and directories to embed, in order.
	Inputs []Input `yaml:"inputs"`
}

// Input is one file or directory to embed. Exactly one of File and Dir is
// set.
type Input struct {
	File        string `yaml:"file"`
	Dir         string `yaml:"dir"`
	Compression string `yaml:"compression"`
}

// LoadManifest reads and validates the manifest at path.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // manifest path is chosen by the build author
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseManifest decodes and validates a YAML manifest. Unknown fields are
// rejected. Package is not required here; see Manifest.Package.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return Manifest{}, fmt.Errorf("%w: empty document", ErrInvalidManifest)
		}
		return Manifest{}, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	return m, m.Validate()
}

// Validate checks that m can drive a build.
func (m Manifest) Validate() error {
	if !token.IsIdentifier(m.Name) {
		return fmt.Errorf("%w: name %q is not a Go identifier", ErrInvalidManifest, m.Name)
	}
	if m.Package != "" && !token.IsIdentifier(m.Package) {
		return fmt.Errorf("%w: package %q is not a Go identifier", ErrInvalidManifest, m.Package)
	}
	if m.Output == "" {
		return fmt.Errorf("%w: output is required", ErrInvalidManifest)
	}
	if len(m.Inputs) == 0 {
		return fmt.Errorf("%w: no inputs", ErrInvalidManifest)
	}
	for i, in := range m.Inputs {
		if (in.File == "") == (in.Dir == "") {
			return fmt.Errorf("%w: input %d: exactly one of file and dir must be set", ErrInvalidManifest, i)
		}
		if _, err := includedir.ParseCompression(in.Compression); err != nil {
			return fmt.Errorf("%w: input %d: %w", ErrInvalidManifest, i, err)
		}
	}
	return nil
}

// Run collects every input of m and emits the table. It returns the path
// of the generated file.
func Run(cfg Config, m Manifest, logger *slog.Logger) (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}

	collectOpts := []CollectOption{CollectWithLogger(logger)}
	if m.SkipCompression {
		collectOpts = append(collectOpts, CollectWithSkipCompression(DefaultSkipCompression(m.MinCompressSize)))
	}
	c, err := NewCollector(cfg, collectOpts...)
	if err != nil {
		return "", err
	}
	defer c.Close()

	for _, in := range m.Inputs {
		compression, err := includedir.ParseCompression(in.Compression)
		if err != nil {
			return "", err
		}
		if in.Dir != "" {
			err = c.AddDirectory(in.Dir, compression)
		} else {
			err = c.AddFile(in.File, compression)
		}
		if err != nil {
			return "", err
		}
	}

	pkg := m.Package
	if pkg == "" {
		pkg = "main"
	}
	return Build(c, m.Name, m.Output,
		EmitWithPackage(pkg),
		EmitWithFilter(m.Filter...),
		EmitWithDepfile(m.Depfile),
		EmitWithLogger(logger),
	)
}
