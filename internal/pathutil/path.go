// Package pathutil provides helpers for slash-separated table keys.
package pathutil

import "strings"

// Base returns the last element of a slash-separated key.
// If key is empty or ".", it returns ".".
func Base(key string) string {
	if key == "" || key == "." {
		return "."
	}
	key = strings.TrimSuffix(key, "/")
	if i := strings.LastIndexByte(key, '/'); i >= 0 {
		return key[i+1:]
	}
	return key
}

// DirPrefix converts a directory name to the prefix its children share.
// The root "." maps to the empty prefix.
func DirPrefix(name string) string {
	if name == "." {
		return ""
	}
	return name + "/"
}

// Child extracts the immediate child name of key below prefix and reports
// whether more path components follow it. key must start with prefix.
func Child(key, prefix string) (name string, isSubDir bool) {
	rel := key[len(prefix):]
	if i := strings.IndexByte(rel, '/'); i >= 0 {
		return rel[:i], true
	}
	return rel, false
}
