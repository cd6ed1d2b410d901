package bconnect

import "strings"

// RootPath is the scope entries get when they are registered without one. It matches every request.
const RootPath = "/"

// Matches reports whether an entry registered on scope applies to a request for pathname. The scope
// "/" matches everything, otherwise the pathname must equal the scope or continue it at a segment
// boundary: "/foo" matches "/foo" and "/foo/bar" but not "/foobar".
func Matches(scope, pathname string) bool {
	switch {
	case scope == RootPath:
		return true
	case scope == pathname:
		return true
	default:
		return strings.HasPrefix(pathname, scope+"/")
	}
}
