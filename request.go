package bconnect

import (
	"net/http"
	"net/url"
)

// Request is the per-dispatch view of an incoming request: the original request plus its path without
// the query string and the decoded query. Repeated query keys keep all their values.
type Request struct {
	*http.Request
	Pathname string
	Query    url.Values
}

// NewRequest derives the pathname and query of r.
func NewRequest(r *http.Request) *Request {
	pathname, query := RootPath, url.Values{}
	if r.URL != nil {
		if r.URL.Path != "" {
			pathname = r.URL.Path
		}

		query = r.URL.Query()
	}

	return &Request{Request: r, Pathname: pathname, Query: query}
}
