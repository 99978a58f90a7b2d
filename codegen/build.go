package codegen

import (
	"fmt"
	"io"
	"os"
)

// Build emits the table collected by c as a variable called name into
// outName inside the output directory. With EmitWithDepfile(true) it also
// writes the dependency file. Returns the path of the generated file.
func Build(c *Collector, name, outName string, opts ...EmitOption) (string, error) {
	e, err := NewEmitter(c.Config(), name, opts...)
	if err != nil {
		return "", err
	}

	path, err := e.WriteFile(outName, c.Sources())
	if err != nil {
		return "", err
	}

	if e.depfile {
		if _, err := e.WriteDepfile(path, c.Dependencies()); err != nil {
			return "", err
		}
	}
	return path, nil
}

// MustBuild is like Build but aborts the process on error. It is meant for
// the outermost call of a generator program.
func MustBuild(c *Collector, name, outName string, opts ...EmitOption) string {
	path, err := Build(c, name, outName, opts...)
	if err != nil {
		fatal(err)
	}
	return path
}

// Overridden in tests.
var (
	exit             = os.Exit
	stderr io.Writer = os.Stderr
)

// fatal reports err and aborts the build.
func fatal(err error) {
	fmt.Fprintf(stderr, "includedir: %v\n", err)
	exit(1)
}
