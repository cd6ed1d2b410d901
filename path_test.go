package bconnect_test

import (
	"testing"

	"github.com/advdv/bconnect"
	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	for _, tt := range []struct {
		scope    string
		pathname string
		want     bool
	}{
		{"/", "/", true},
		{"/", "/foo", true},
		{"/", "/foo/bar/baz", true},
		{"/foo", "/foo", true},
		{"/foo", "/foo/", true},
		{"/foo", "/foo/bar", true},
		{"/foo", "/foobar", false},
		{"/foo", "/bar", false},
		{"/foo", "/", false},
		{"/foo/bar", "/foo", false},
		{"/foo/bar", "/foo/bar/baz", true},
		{"/foo/", "/foo/bar", false},
	} {
		t.Run(tt.scope+" "+tt.pathname, func(t *testing.T) {
			require.Equal(t, tt.want, bconnect.Matches(tt.scope, tt.pathname))
		})
	}
}
