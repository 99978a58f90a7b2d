package codegen

import (
	"strings"

	"github.com/meigma/includedir"
)

// excluded reports whether location ends with one of the filter suffixes.
// Both sides are slash-normalized so filters are portable.
func excluded(location string, filters []string) bool {
	loc := includedir.NormalizeKey(location)
	for _, f := range filters {
		if f == "" {
			continue
		}
		if strings.HasSuffix(loc, includedir.NormalizeKey(f)) {
			return true
		}
	}
	return false
}
