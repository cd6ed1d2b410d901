package bconnect_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/advdv/bconnect"
	"github.com/stretchr/testify/require"
)

func TestResponseWriterImplicitHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	w := bconnect.NewResponseWriter(rec)

	require.Equal(t, http.StatusOK, w.Status())
	require.False(t, w.HeadersSent())

	w.SetStatus(http.StatusAccepted)
	fmt.Fprint(w, "hello")

	require.True(t, w.HeadersSent())
	require.Equal(t, http.StatusAccepted, w.Status())
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Equal(t, 5, w.Size())
}

func TestResponseWriterStatusIsFinalOnceSent(t *testing.T) {
	rec := httptest.NewRecorder()
	w := bconnect.NewResponseWriter(rec)

	w.WriteHeader(http.StatusCreated)
	w.WriteHeader(http.StatusInternalServerError)
	w.SetStatus(http.StatusBadGateway)

	require.Equal(t, http.StatusCreated, w.Status())
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestResponseWriterIsShared(t *testing.T) {
	w := bconnect.NewResponseWriter(httptest.NewRecorder())
	require.Same(t, w, bconnect.NewResponseWriter(w))
}

func TestResponseWriterFlushSendsHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	w := bconnect.NewResponseWriter(rec)
	w.SetStatus(http.StatusTeapot)

	require.NoError(t, http.NewResponseController(w).Flush())
	require.True(t, w.HeadersSent())
	require.True(t, rec.Flushed)
	require.Equal(t, http.StatusTeapot, rec.Code)
}

func TestNewRequest(t *testing.T) {
	r := bconnect.NewRequest(httptest.NewRequest(http.MethodGet, "/search?q=go&tag=a&tag=b", nil))

	require.Equal(t, "/search", r.Pathname)
	require.Equal(t, "go", r.Query.Get("q"))
	require.Equal(t, []string{"a", "b"}, r.Query["tag"])
	require.Equal(t, "/", bconnect.NewRequest(&http.Request{}).Pathname)
}
