package codegen

import (
	"errors"
	"path/filepath"
	"strings"
)

// scratchRel maps an input path to the relative path of its compressed
// intermediate below the scratch directory.
//
// Volume names and leading separators are stripped and ".." elements are
// replaced with "_", so the result is always local to the scratch root.
func scratchRel(path string) (string, error) {
	p := filepath.Clean(path)
	p = p[len(filepath.VolumeName(p)):]
	p = strings.TrimLeft(filepath.ToSlash(p), "/")

	parts := strings.Split(p, "/")
	for i, part := range parts {
		if part == ".." {
			parts[i] = "_"
		}
	}
	rel := filepath.Join(parts...)
	if rel == "" || rel == "." || !filepath.IsLocal(rel) {
		return "", errors.New("no scratch path for " + path)
	}
	return rel, nil
}
