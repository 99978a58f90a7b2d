// Package includedir provides runtime access to files embedded into a
// program by the includedir-gen generator.
//
// The generator (package codegen and cmd/includedir-gen) walks
// a directory tree at build time, optionally compresses each file, and
// emits a Go source file declaring a *[Table]:
//
//	//go:generate go run github.com/meigma/includedir/cmd/includedir-gen includedir.yaml
//
//	data, err := Files.Get("data/inner/boom")
//
// Keys are forward-slash relative paths. [NormalizeKey] is applied on both
// sides of the build boundary, so a key generated on one platform resolves
// the same way on any other.
//
// A Table never changes after construction and is safe for concurrent use.
// Every decoding call creates its own decoder.
//
// Table implements fs.FS, fs.StatFS, fs.ReadFileFS, and fs.ReadDirFS, with
// directories synthesized from key prefixes.
package includedir
