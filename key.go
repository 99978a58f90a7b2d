package includedir

import "strings"

// NormalizeKey converts a path to table key form by replacing every
// backslash with a forward slash.
//
// The generator and the Table both call NormalizeKey, so keys produced on
// Windows and Unix hosts are interchangeable. No other cleaning is
// performed: "data/./foo" and "data/foo" are different keys.
func NormalizeKey(path string) string {
	if !strings.Contains(path, `\`) {
		return path
	}
	return strings.ReplaceAll(path, `\`, "/")
}
