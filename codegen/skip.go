package codegen

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// SkipCompressionFunc returns true when a file should be stored
// uncompressed even though compression was requested for it.
// It is called once per file and should be inexpensive.
type SkipCompressionFunc func(key string, info fs.FileInfo) bool

// DefaultSkipCompression returns a SkipCompressionFunc that skips files
// smaller than minSize and files whose extension marks them as already
// compressed.
func DefaultSkipCompression(minSize int64) SkipCompressionFunc {
	return func(key string, info fs.FileInfo) bool {
		if info != nil && minSize > 0 && info.Size() < minSize {
			return true
		}
		_, ok := compressedExts[strings.ToLower(filepath.Ext(key))]
		return ok
	}
}

func shouldSkip(key string, info fs.FileInfo, predicates []SkipCompressionFunc) bool {
	for _, fn := range predicates {
		if fn != nil && fn(key, info) {
			return true
		}
	}
	return false
}

// Extensions of formats that gzip cannot meaningfully shrink.
var compressedExts = map[string]struct{}{
	".7z":    {},
	".avif":  {},
	".br":    {},
	".bz2":   {},
	".gif":   {},
	".gz":    {},
	".ico":   {},
	".jpeg":  {},
	".jpg":   {},
	".mp3":   {},
	".mp4":   {},
	".ogg":   {},
	".pdf":   {},
	".png":   {},
	".tgz":   {},
	".webm":  {},
	".webp":  {},
	".woff":  {},
	".woff2": {},
	".xz":    {},
	".zip":   {},
	".zst":   {},
}
