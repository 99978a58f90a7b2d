package codegen

import (
	"fmt"
	"io"

	"github.com/dave/jennifer/jen"

	"github.com/meigma/includedir"
)

// RuntimeImportPath is the import path generated files use for the table
// runtime.
const RuntimeImportPath = "github.com/meigma/includedir"

// generatedHeader marks the output as generated for go vet and linters.
const generatedHeader = "Code generated by includedir-gen. DO NOT EDIT."

// Render writes the Go source declaring the table to w.
//
// Keys are emitted in sorted order and the output is gofmt'd, so the same
// entries always render to the same bytes.
func (e *Emitter) Render(w io.Writer, entries map[string]includedir.Entry) error {
	f := jen.NewFile(e.pkg)
	f.HeaderComment(generatedHeader)
	f.ImportName(RuntimeImportPath, "includedir")

	values := jen.Dict{}
	for key, entry := range entries {
		fields, err := entryFields(entry)
		if err != nil {
			return fmt.Errorf("render %s: %w", key, err)
		}
		values[jen.Lit(key)] = jen.Values(fields)
	}

	f.Commentf("%s holds the files embedded by includedir-gen.", e.name)
	f.Var().Id(e.name).Op("=").Qual(RuntimeImportPath, "New").Call(
		jen.Map(jen.String()).Qual(RuntimeImportPath, "Entry").Values(values),
	)

	if err := f.Render(w); err != nil {
		return fmt.Errorf("%w: render: %w", ErrOutputWrite, err)
	}
	return nil
}

func entryFields(entry includedir.Entry) (jen.Dict, error) {
	constName, err := compressionConst(entry.Compression)
	if err != nil {
		return nil, err
	}
	fields := jen.Dict{
		jen.Id("Compression"): jen.Qual(RuntimeImportPath, constName),
		jen.Id("Data"):        jen.Lit(entry.Data),
		jen.Id("Size"):        jen.Lit(entry.Size),
	}
	if entry.Digest != "" {
		fields[jen.Id("Digest")] = jen.Lit(entry.Digest.String())
	}
	return fields, nil
}

func compressionConst(c includedir.Compression) (string, error) {
	switch c {
	case includedir.CompressionNone:
		return "CompressionNone", nil
	case includedir.CompressionGzip:
		return "CompressionGzip", nil
	case includedir.CompressionZstd:
		return "CompressionZstd", nil
	default:
		return "", fmt.Errorf("%w: %d", includedir.ErrUnknownCompression, c)
	}
}
