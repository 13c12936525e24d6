package attribution

import "strings"

// homePath is the canonical path reported for the site root.
const homePath = "/home/"

// NormalizePath canonicalizes a page path for reporting: the root path "/"
// maps to "/home/", every other path gets exactly one leading and one
// trailing slash. Idempotent for already-normalized paths.
func NormalizePath(path string) string {
	if path == "/" {
		return homePath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	return path
}
