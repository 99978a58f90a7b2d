// Command includedir-gen generates a Go file embedding the inputs listed in
// an includedir manifest. It is normally run from a go:generate directive:
//
//	//go:generate go run github.com/meigma/includedir/cmd/includedir-gen includedir.yaml
//
// Relative inputs resolve against the manifest's directory unless --root
// is given, and the generated file is written next to the manifest unless
// --out-dir is given. The package clause defaults to $GOPACKAGE, which go
// generate sets.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/meigma/includedir/codegen"
)

type cli struct {
	Manifest   string `arg:"" optional:"" type:"path" default:"${manifest}" help:"Generator manifest."`
	Root       string `type:"path" env:"INCLUDEDIR_ROOT" help:"Project root for relative inputs (default: manifest directory)."`
	OutDir     string `type:"path" env:"INCLUDEDIR_OUT_DIR" help:"Directory receiving the generated file (default: manifest directory)."`
	ScratchDir string `type:"path" env:"INCLUDEDIR_SCRATCH_DIR" help:"Directory for compressed intermediates (default: temporary)."`
	Package    string `env:"GOPACKAGE" help:"Package clause used when the manifest sets none."`
	Verbose    bool   `short:"v" help:"Log every collected file."`
}

var vars = kong.Vars{"manifest": codegen.DefaultManifestName}

func main() {
	var c cli
	kctx := kong.Parse(&c,
		kong.Name("includedir-gen"),
		kong.Description("Embed files into a Go package as an includedir.Table."),
		kong.UsageOnError(),
		vars,
	)
	kctx.FatalIfErrorf(c.run(newLogger(c.Verbose)))
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (c *cli) run(logger *slog.Logger) error {
	m, err := codegen.LoadManifest(c.Manifest)
	if err != nil {
		return err
	}
	if m.Package == "" {
		m.Package = c.Package
	}

	base := filepath.Dir(c.Manifest)
	cfg := codegen.Config{
		Root:       orDefault(c.Root, base),
		OutDir:     orDefault(c.OutDir, base),
		ScratchDir: c.ScratchDir,
	}
	_, err = codegen.Run(cfg, m, logger)
	return err
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
