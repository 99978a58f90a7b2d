package codegen

import (
	"fmt"
	"os"
	"path/filepath"
)

// walk visits every regular file below fsPath, following symbolic links.
// name is the caller-facing path matching fsPath; visit receives the
// corresponding name for each file. active holds the resolved directories
// on the current branch and breaks symlink cycles.
func (c *Collector) walk(fsPath, name string, active map[string]struct{}, visit func(name string) error) error {
	info, err := os.Stat(fsPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMissingSource, name, err)
	}
	if !info.IsDir() {
		if !info.Mode().IsRegular() {
			c.log().Debug("skipping irregular file", "path", name, "mode", info.Mode().String())
			return nil
		}
		return visit(name)
	}

	resolved, err := filepath.EvalSymlinks(fsPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMissingSource, name, err)
	}
	if _, ok := active[resolved]; ok {
		c.log().Debug("skipping symlink cycle", "path", name)
		return nil
	}
	active[resolved] = struct{}{}
	defer delete(active, resolved)

	c.declareDependency(fsPath)
	entries, err := os.ReadDir(fsPath)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrMissingSource, name, err)
	}
	for _, e := range entries {
		if err := c.walk(filepath.Join(fsPath, e.Name()), filepath.Join(name, e.Name()), active, visit); err != nil {
			return err
		}
	}
	return nil
}
