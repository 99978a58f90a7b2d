package codegen

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/constant"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/includedir"
	"github.com/meigma/includedir/internal/testutil"
)

// generatedEntry is an entry recovered from generated source.
type generatedEntry struct {
	Compression string
	Data        string
	Size        int64
	Digest      string
}

// parseGenerated parses src as a generated table file and returns its
// package name, variable name, and entries.
func parseGenerated(t *testing.T, src []byte) (pkg, name string, entries map[string]generatedEntry) {
	t.Helper()

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "gen.go", src, parser.ParseComments)
	require.NoError(t, err, "generated source must parse:\n%s", src)
	require.True(t, ast.IsGenerated(f), "missing generated header")

	var vs *ast.ValueSpec
	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if ok && gen.Tok == token.VAR {
			require.Len(t, gen.Specs, 1)
			vs = gen.Specs[0].(*ast.ValueSpec)
		}
	}
	require.NotNil(t, vs, "no var declaration")
	require.Len(t, vs.Names, 1)

	call := vs.Values[0].(*ast.CallExpr)
	assert.Equal(t, "New", call.Fun.(*ast.SelectorExpr).Sel.Name)
	lit := call.Args[0].(*ast.CompositeLit)

	entries = make(map[string]generatedEntry)
	for _, elt := range lit.Elts {
		kv := elt.(*ast.KeyValueExpr)
		key, err := strconv.Unquote(kv.Key.(*ast.BasicLit).Value)
		require.NoError(t, err)

		var ge generatedEntry
		for _, field := range kv.Value.(*ast.CompositeLit).Elts {
			fkv := field.(*ast.KeyValueExpr)
			switch fkv.Key.(*ast.Ident).Name {
			case "Compression":
				ge.Compression = fkv.Value.(*ast.SelectorExpr).Sel.Name
			case "Data":
				ge.Data, err = strconv.Unquote(fkv.Value.(*ast.BasicLit).Value)
				require.NoError(t, err)
			case "Size":
				conv := fkv.Value.(*ast.CallExpr)
				assert.Equal(t, "int64", conv.Fun.(*ast.Ident).Name)
				ge.Size, err = strconv.ParseInt(conv.Args[0].(*ast.BasicLit).Value, 10, 64)
				require.NoError(t, err)
			case "Digest":
				ge.Digest, err = strconv.Unquote(fkv.Value.(*ast.BasicLit).Value)
				require.NoError(t, err)
			}
		}
		entries[key] = ge
	}
	return f.Name.Name, vs.Names[0].Name, entries
}

// typeCheckGenerated type-checks src against the exported shape of the
// runtime package: the Entry fields come from the real type, so a field
// rename or type change in the runtime breaks generated code here.
func typeCheckGenerated(t *testing.T, src []byte) {
	t.Helper()

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "gen.go", src, 0)
	require.NoError(t, err)

	conf := types.Config{Importer: runtimeImporter(t)}
	_, err = conf.Check(f.Name.Name, fset, []*ast.File{f}, nil)
	require.NoError(t, err, "generated source must type-check:\n%s", src)
}

type importerFunc func(path string) (*types.Package, error)

func (fn importerFunc) Import(path string) (*types.Package, error) { return fn(path) }

func runtimeImporter(t *testing.T) types.Importer {
	t.Helper()

	digestPkg := types.NewPackage("github.com/opencontainers/go-digest", "digest")
	digestType := types.NewNamed(types.NewTypeName(token.NoPos, digestPkg, "Digest", nil), types.Typ[types.String], nil)
	digestPkg.Scope().Insert(digestType.Obj())
	digestPkg.MarkComplete()

	pkg := types.NewPackage(RuntimeImportPath, "includedir")
	compression := types.NewNamed(types.NewTypeName(token.NoPos, pkg, "Compression", nil), types.Typ[types.Uint8], nil)
	pkg.Scope().Insert(compression.Obj())
	for _, c := range []includedir.Compression{
		includedir.CompressionNone,
		includedir.CompressionGzip,
		includedir.CompressionZstd,
	} {
		name, err := compressionConst(c)
		require.NoError(t, err)
		pkg.Scope().Insert(types.NewConst(token.NoPos, pkg, name, compression, constant.MakeUint64(uint64(c))))
	}

	rt := reflect.TypeFor[includedir.Entry]()
	fields := make([]*types.Var, rt.NumField())
	for i := range rt.NumField() {
		sf := rt.Field(i)
		var ft types.Type
		switch sf.Type {
		case reflect.TypeFor[includedir.Compression]():
			ft = compression
		case reflect.TypeFor[digest.Digest]():
			ft = digestType
		case reflect.TypeFor[string]():
			ft = types.Typ[types.String]
		case reflect.TypeFor[int64]():
			ft = types.Typ[types.Int64]
		default:
			t.Fatalf("unhandled Entry field %s of type %s", sf.Name, sf.Type)
		}
		fields[i] = types.NewField(token.NoPos, pkg, sf.Name, ft, false)
	}
	entry := types.NewNamed(types.NewTypeName(token.NoPos, pkg, "Entry", nil), types.NewStruct(fields, nil), nil)
	pkg.Scope().Insert(entry.Obj())

	table := types.NewNamed(types.NewTypeName(token.NoPos, pkg, "Table", nil), types.NewStruct(nil, nil), nil)
	pkg.Scope().Insert(table.Obj())
	params := types.NewTuple(types.NewVar(token.NoPos, pkg, "entries", types.NewMap(types.Typ[types.String], entry)))
	results := types.NewTuple(types.NewVar(token.NoPos, pkg, "", types.NewPointer(table)))
	pkg.Scope().Insert(types.NewFunc(token.NoPos, pkg, "New", types.NewSignatureType(nil, nil, nil, params, results, false)))
	pkg.MarkComplete()

	return importerFunc(func(path string) (*types.Package, error) {
		switch path {
		case RuntimeImportPath:
			return pkg, nil
		case digestPkg.Path():
			return digestPkg, nil
		default:
			return nil, fmt.Errorf("unexpected import %q", path)
		}
	})
}

func TestTypeCheckRejectsUnknownField(t *testing.T) {
	t.Parallel()

	src := []byte(`package assets

import includedir "github.com/meigma/includedir"

var Files = includedir.New(map[string]includedir.Entry{
	"a": {Compression: includedir.CompressionNone, Payload: "x"},
})
`)
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "gen.go", src, 0)
	require.NoError(t, err)

	conf := types.Config{Importer: runtimeImporter(t), Error: func(error) {}}
	_, err = conf.Check(f.Name.Name, fset, []*ast.File{f}, nil)
	require.Error(t, err)
}

func TestNewEmitterValidatesNames(t *testing.T) {
	t.Parallel()

	cfg := Config{Root: t.TempDir(), OutDir: t.TempDir()}

	_, err := NewEmitter(cfg, "FILES")
	require.NoError(t, err)

	_, err = NewEmitter(cfg, "not-an-identifier")
	require.ErrorIs(t, err, ErrInvalidName)

	_, err = NewEmitter(cfg, "Files", EmitWithPackage("my package"))
	require.ErrorIs(t, err, ErrInvalidName)

	_, err = NewEmitter(Config{Root: t.TempDir()}, "Files")
	require.ErrorIs(t, err, ErrMissingEnvironment)
}

func TestEntriesFillsUncompressedMetadata(t *testing.T) {
	t.Parallel()

	c, _ := newTestCollector(t, map[string]string{"data/foo": "foo\r\n"})
	require.NoError(t, c.AddFile("data/foo", includedir.CompressionNone))

	e, err := NewEmitter(c.Config(), "Files")
	require.NoError(t, err)
	entries, err := e.Entries(c.Sources())
	require.NoError(t, err)

	entry := entries["data/foo"]
	assert.Equal(t, includedir.CompressionNone, entry.Compression)
	assert.Equal(t, "foo\r\n", entry.Data)
	assert.Equal(t, int64(5), entry.Size)
	assert.Equal(t, digest.FromString("foo\r\n"), entry.Digest)
}

func TestEntriesMissingSource(t *testing.T) {
	t.Parallel()

	c, root := newTestCollector(t, map[string]string{"data/foo": "foo"})
	require.NoError(t, c.AddFile("data/foo", includedir.CompressionNone))
	require.NoError(t, os.Remove(filepath.Join(root, "data", "foo")))

	e, err := NewEmitter(c.Config(), "Files")
	require.NoError(t, err)
	_, err = e.Entries(c.Sources())
	require.ErrorIs(t, err, ErrMissingSource)
}

func TestRenderProducesParsableSource(t *testing.T) {
	t.Parallel()

	e, err := NewEmitter(Config{Root: t.TempDir(), OutDir: t.TempDir()}, "FILES", EmitWithPackage("assets"))
	require.NoError(t, err)

	binary := string([]byte{0x00, 0x1f, 0x8b, 0xff, '"', '\\', '\n'})
	entries := map[string]includedir.Entry{
		"data/foo":    testutil.NewEntry(t, []byte("foo\r\n"), includedir.CompressionGzip),
		"data/binary": {Compression: includedir.CompressionNone, Data: binary, Size: int64(len(binary))},
		"data/zstd":   testutil.NewEntry(t, []byte("zstd"), includedir.CompressionZstd),
	}

	var buf bytes.Buffer
	require.NoError(t, e.Render(&buf, entries))

	pkg, name, got := parseGenerated(t, buf.Bytes())
	assert.Equal(t, "assets", pkg)
	assert.Equal(t, "FILES", name)
	require.Len(t, got, 3)

	assert.Equal(t, "CompressionGzip", got["data/foo"].Compression)
	assert.Equal(t, entries["data/foo"].Data, got["data/foo"].Data)
	assert.Equal(t, entries["data/foo"].Digest.String(), got["data/foo"].Digest)
	assert.Equal(t, int64(5), got["data/foo"].Size)

	assert.Equal(t, "CompressionNone", got["data/binary"].Compression)
	assert.Equal(t, binary, got["data/binary"].Data)
	assert.Empty(t, got["data/binary"].Digest)
	assert.Equal(t, int64(len(binary)), got["data/binary"].Size)

	assert.Equal(t, "CompressionZstd", got["data/zstd"].Compression)
	assert.Equal(t, int64(4), got["data/zstd"].Size)

	typeCheckGenerated(t, buf.Bytes())

	assert.Contains(t, buf.String(), `"github.com/meigma/includedir"`)
}

func TestRenderIsDeterministic(t *testing.T) {
	t.Parallel()

	e, err := NewEmitter(Config{Root: t.TempDir(), OutDir: t.TempDir()}, "Files")
	require.NoError(t, err)

	entries := make(map[string]includedir.Entry)
	for _, k := range []string{"z", "a", "m/n", "b/c/d", "0"} {
		entries[k] = testutil.NewEntry(t, []byte(k), includedir.CompressionNone)
	}

	var first bytes.Buffer
	require.NoError(t, e.Render(&first, entries))
	for range 5 {
		var again bytes.Buffer
		require.NoError(t, e.Render(&again, entries))
		assert.Equal(t, first.String(), again.String())
	}
}

func TestRenderEmptyTable(t *testing.T) {
	t.Parallel()

	e, err := NewEmitter(Config{Root: t.TempDir(), OutDir: t.TempDir()}, "Empty")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, e.Render(&buf, nil))
	_, _, got := parseGenerated(t, buf.Bytes())
	assert.Empty(t, got)
}

func TestRenderUnknownCompression(t *testing.T) {
	t.Parallel()

	e, err := NewEmitter(Config{Root: t.TempDir(), OutDir: t.TempDir()}, "Files")
	require.NoError(t, err)

	err = e.Render(&bytes.Buffer{}, map[string]includedir.Entry{"x": {Compression: 9}})
	require.ErrorIs(t, err, includedir.ErrUnknownCompression)
}

func TestWriteFileIsAtomic(t *testing.T) {
	t.Parallel()

	c, root := newTestCollector(t, map[string]string{"data/foo": "foo"})
	require.NoError(t, c.AddFile("data/foo", includedir.CompressionGzip))

	e, err := NewEmitter(c.Config(), "Files")
	require.NoError(t, err)

	path, err := e.WriteFile("files_gen.go", c.Sources())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "out", "files_gen.go"), path)

	previous, err := os.ReadFile(path)
	require.NoError(t, err)

	// A failing rebuild leaves the previous artifact untouched.
	broken := c.Sources()
	broken["data/gone"] = Source{Location: "data/gone", Size: -1}
	_, err = e.WriteFile("files_gen.go", broken)
	require.ErrorIs(t, err, ErrMissingSource)

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, previous, current)

	leftovers, err := filepath.Glob(filepath.Join(root, "out", ".files_gen.go.tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestWriteFileRejectsEscapingName(t *testing.T) {
	t.Parallel()

	e, err := NewEmitter(Config{Root: t.TempDir(), OutDir: t.TempDir()}, "Files")
	require.NoError(t, err)

	for _, name := range []string{"../gen.go", "/abs/gen.go", ""} {
		_, err := e.WriteFile(name, nil)
		require.ErrorIs(t, err, ErrInvalidName, name)
	}
}

func TestWriteFileOutputFailure(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"out": "a file, not a directory"})

	e, err := NewEmitter(Config{Root: root, OutDir: filepath.Join(root, "out")}, "Files")
	require.NoError(t, err)
	_, err = e.WriteFile("gen.go", nil)
	require.ErrorIs(t, err, ErrOutputWrite)
}

func TestWriteDepfile(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	e, err := NewEmitter(Config{Root: out, OutDir: out}, "Files")
	require.NoError(t, err)

	target := filepath.Join(out, "files_gen.go")
	path, err := e.WriteDepfile(target, []string{"/src/data/foo", "/src/my data/$x#1"})
	require.NoError(t, err)
	assert.Equal(t, target+".d", path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, target+`: \`, lines[0])
	assert.Equal(t, `  /src/data/foo \`, lines[1])
	assert.Equal(t, `  /src/my\ data/$$x\#1`, lines[2])
}
