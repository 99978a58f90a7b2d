// Package codegen generates Go source files that embed files into a
// program as an includedir.Table.
//
// A build runs in two steps. A [Collector] gathers files under
// slash-normalized keys, compressing them into a scratch directory when
// asked. An [Emitter] filters the collected entries, reads their payloads,
// and writes a gofmt'd Go file declaring the table:
//
//	c, err := codegen.NewCollector(codegen.Config{Root: ".", OutDir: "."})
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//	if err := c.AddDirectory("data", includedir.CompressionGzip); err != nil {
//	    return err
//	}
//	_, err = codegen.Build(c, "Files", "files_gen.go",
//	    codegen.EmitWithPackage("assets"),
//	    codegen.EmitWithFilter("data/secret.txt"),
//	)
//
// Every method returns an error. The Must variants and [MustBuild] abort
// the process instead and are meant for the outermost call in a generator
// program.
package codegen
