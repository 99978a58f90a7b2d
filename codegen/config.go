package codegen

import (
	"fmt"
	"path/filepath"
)

// Config holds the build environment. Every path is explicit; nothing is
// read from the process environment.
type Config struct {
	// Root is the project root. Relative input paths resolve against it.
	Root string

	// OutDir receives the generated file and its depfile.
	OutDir string

	// ScratchDir receives compressed intermediates. When empty, the
	// Collector creates a temporary directory and removes it on Close.
	ScratchDir string
}

// normalize validates cfg and makes its paths absolute.
func (cfg Config) normalize() (Config, error) {
	if cfg.Root == "" {
		return Config{}, fmt.Errorf("%w: project root not set", ErrMissingEnvironment)
	}
	if cfg.OutDir == "" {
		return Config{}, fmt.Errorf("%w: output directory not set", ErrMissingEnvironment)
	}

	var err error
	if cfg.Root, err = filepath.Abs(cfg.Root); err != nil {
		return Config{}, fmt.Errorf("resolve project root: %w", err)
	}
	if cfg.OutDir, err = filepath.Abs(cfg.OutDir); err != nil {
		return Config{}, fmt.Errorf("resolve output directory: %w", err)
	}
	if cfg.ScratchDir != "" {
		if cfg.ScratchDir, err = filepath.Abs(cfg.ScratchDir); err != nil {
			return Config{}, fmt.Errorf("resolve scratch directory: %w", err)
		}
	}
	return cfg, nil
}

// resolve joins a relative path with the project root.
func (cfg Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(cfg.Root, path)
}
