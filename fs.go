package includedir

import (
	"io"
	"io/fs"
	"slices"
	"sort"
	"strings"

	"github.com/meigma/includedir/internal/file"
	"github.com/meigma/includedir/internal/pathutil"
)

// Interface compliance.
var (
	_ fs.FS         = (*Table)(nil)
	_ fs.StatFS     = (*Table)(nil)
	_ fs.ReadFileFS = (*Table)(nil)
	_ fs.ReadDirFS  = (*Table)(nil)
)

// Open implements fs.FS.
//
// Files stream decoded content like Read. Directories are synthesized from
// key prefixes; "." always exists. Keys that are not valid fs paths (for
// example absolute keys) are reachable only through Get and Read.
func (t *Table) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	if entry, ok := t.entries[name]; ok {
		return file.Open(name, entry, t.verify), nil
	}
	if t.isDir(name) {
		return &openDir{t: t, name: name}, nil
	}
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}

// Stat implements fs.StatFS.
func (t *Table) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}
	if entry, ok := t.entries[name]; ok {
		return file.NewInfo(entry, pathutil.Base(name)), nil
	}
	if t.isDir(name) {
		return file.NewDirInfo(pathutil.Base(name)), nil
	}
	return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
}

// ReadFile implements fs.ReadFileFS. It returns the same content as Get.
func (t *Table) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrInvalid}
	}
	entry, ok := t.entries[name]
	if !ok {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: fs.ErrNotExist}
	}
	data, err := t.decode(entry)
	if err != nil {
		return nil, &fs.PathError{Op: "readfile", Path: name, Err: err}
	}
	return data, nil
}

// ReadDir implements fs.ReadDirFS. Entries are sorted by name.
func (t *Table) ReadDir(name string) ([]fs.DirEntry, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrInvalid}
	}
	if !t.isDir(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}
	return t.dirEntries(name), nil
}

// isDir reports whether name is the root or a prefix of at least one key.
func (t *Table) isDir(name string) bool {
	if name == "." {
		return true
	}
	prefix := pathutil.DirPrefix(name)
	i := sort.SearchStrings(t.keys, prefix)
	return i < len(t.keys) && strings.HasPrefix(t.keys[i], prefix)
}

// dirEntries lists the immediate children of name, synthesizing
// subdirectories from nested keys.
func (t *Table) dirEntries(name string) []fs.DirEntry {
	prefix := pathutil.DirPrefix(name)
	entries := make([]fs.DirEntry, 0)
	seen := make(map[string]struct{})
	for i := sort.SearchStrings(t.keys, prefix); i < len(t.keys); i++ {
		key := t.keys[i]
		if !strings.HasPrefix(key, prefix) {
			break
		}
		child, isSubDir := pathutil.Child(key, prefix)
		if child == "" {
			continue
		}
		if _, dup := seen[child]; dup {
			continue
		}
		seen[child] = struct{}{}
		if isSubDir {
			entries = append(entries, file.NewDirEntry(file.NewDirInfo(child)))
			continue
		}
		entries = append(entries, file.NewDirEntry(file.NewInfo(t.entries[key], child)))
	}
	slices.SortFunc(entries, func(a, b fs.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return entries
}

// openDir implements fs.ReadDirFile for synthetic directories.
type openDir struct {
	t       *Table
	name    string
	entries []fs.DirEntry
	offset  int
	loaded  bool
}

func (d *openDir) Read(_ []byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.name, Err: fs.ErrInvalid}
}

func (d *openDir) Stat() (fs.FileInfo, error) {
	return file.NewDirInfo(pathutil.Base(d.name)), nil
}

func (d *openDir) Close() error {
	return nil
}

func (d *openDir) ReadDir(n int) ([]fs.DirEntry, error) {
	if !d.loaded {
		d.entries = d.t.dirEntries(d.name)
		d.loaded = true
	}

	remaining := d.entries[d.offset:]
	if n <= 0 {
		d.offset = len(d.entries)
		return remaining, nil
	}
	if len(remaining) == 0 {
		return nil, io.EOF
	}
	if n > len(remaining) {
		n = len(remaining)
	}
	d.offset += n
	return remaining[:n], nil
}
