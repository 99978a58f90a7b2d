package file

import (
	"io/fs"
	"time"

	"github.com/meigma/includedir/internal/tabletype"
)

// Embedded files are read-only and carry no modification time.
const fileMode fs.FileMode = 0o444

// Info implements fs.FileInfo for embedded files.
type Info struct {
	entry tabletype.Entry
	name  string
}

// NewInfo creates an Info from an entry.
func NewInfo(entry tabletype.Entry, name string) *Info {
	return &Info{entry: entry, name: name}
}

func (fi *Info) Name() string       { return fi.name }
func (fi *Info) Size() int64        { return DecodedSize(fi.entry) }
func (fi *Info) Mode() fs.FileMode  { return fileMode }
func (fi *Info) ModTime() time.Time { return time.Time{} }
func (fi *Info) IsDir() bool        { return false }
func (fi *Info) Sys() any           { return nil }

// Compression returns the codec of the underlying entry.
func (fi *Info) Compression() tabletype.Compression {
	return fi.entry.Compression
}

// DecodedSize returns the decoded length of entry. Uncompressed entries
// without a recorded size report the payload length.
func DecodedSize(entry tabletype.Entry) int64 {
	if entry.Size == 0 && entry.Compression == tabletype.CompressionNone {
		return int64(len(entry.Data))
	}
	return entry.Size
}

// DirInfo implements fs.FileInfo for synthetic directories.
type DirInfo struct {
	name string
}

// NewDirInfo creates a DirInfo with the given name.
func NewDirInfo(name string) *DirInfo {
	return &DirInfo{name: name}
}

func (di *DirInfo) Name() string       { return di.name }
func (di *DirInfo) Size() int64        { return 0 }
func (di *DirInfo) Mode() fs.FileMode  { return fs.ModeDir | 0o555 }
func (di *DirInfo) ModTime() time.Time { return time.Time{} }
func (di *DirInfo) IsDir() bool        { return true }
func (di *DirInfo) Sys() any           { return nil }

// DirEntry implements fs.DirEntry by wrapping fs.FileInfo.
type DirEntry struct {
	info fs.FileInfo
}

// NewDirEntry creates a DirEntry wrapping the given FileInfo.
func NewDirEntry(info fs.FileInfo) *DirEntry {
	return &DirEntry{info: info}
}

func (de *DirEntry) Name() string               { return de.info.Name() }
func (de *DirEntry) IsDir() bool                { return de.info.IsDir() }
func (de *DirEntry) Type() fs.FileMode          { return de.info.Mode().Type() }
func (de *DirEntry) Info() (fs.FileInfo, error) { return de.info, nil }
