package bconnect

import (
	"net/http"
	"net/url"
	"strings"
)

// UseStd registers a standard library handler as a Normal-kind entry on path. The handler sees the
// request unchanged, and the step settles successfully once ServeHTTP returns.
func (a *App) UseStd(path string, handler http.Handler) {
	a.UseAt(path, FromStd(handler))
}

// Mount registers a standard library handler on path. The mounted handler receives requests with the
// path prefix stripped, "/api/users" reaches a handler mounted on "/api" as "/users".
func (a *App) Mount(path string, handler http.Handler) {
	a.UseAt(path, FromStd(stripPrefix(scopeOrRoot(path), handler)))
}

func stripPrefix(prefix string, handler http.Handler) http.Handler {
	if prefix == RootPath {
		return handler
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := strings.TrimPrefix(r.URL.Path, prefix)
		if p == "" {
			p = "/"
		}

		rp := ""
		if r.URL.RawPath != "" {
			rp = strings.TrimPrefix(r.URL.RawPath, prefix)
			if rp == "" {
				rp = "/"
			}
		}

		r2 := new(http.Request)
		*r2 = *r
		r2.URL = new(url.URL)
		*r2.URL = *r.URL
		r2.URL.Path = p
		r2.URL.RawPath = rp

		handler.ServeHTTP(w, r2)
	})
}
