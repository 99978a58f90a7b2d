package codegen

import (
	"fmt"
	"strings"
)

// WriteDepfile writes a Makefile-style dependency file at target+".d"
// declaring that target depends on every path in deps. Make, Ninja, and
// similar tools use it to re-run generation when an input changes.
func (e *Emitter) WriteDepfile(target string, deps []string) (string, error) {
	var b strings.Builder
	b.WriteString(escapeDep(target))
	b.WriteString(":")
	for _, dep := range deps {
		b.WriteString(" \\\n  ")
		b.WriteString(escapeDep(dep))
	}
	b.WriteString("\n")

	path := target + ".d"
	if err := writeAtomic(path, []byte(b.String())); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrOutputWrite, path, err)
	}
	e.log().Debug("wrote depfile", "path", path, "dependencies", len(deps))
	return path, nil
}

var depEscaper = strings.NewReplacer(
	" ", `\ `,
	"#", `\#`,
	"$", "$$",
)

func escapeDep(path string) string {
	return depEscaper.Replace(path)
}
