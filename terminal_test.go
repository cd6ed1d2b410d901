package bconnect_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/advdv/bconnect"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func finalize(
	t *testing.T, method string, mode bconnect.Mode, err error, prepare func(bconnect.ResponseWriter),
) (*httptest.ResponseRecorder, *bconnect.TestLogger) {
	t.Helper()

	logs := bconnect.NewTestLogger(t)
	rec := httptest.NewRecorder()
	w := bconnect.NewResponseWriter(rec)
	if prepare != nil {
		prepare(w)
	}

	req := bconnect.NewRequest(httptest.NewRequest(method, "/some/path", nil))
	bconnect.FinalHandler(w, req, mode, logs)(err)

	return rec, logs
}

func TestFinalHandlerHeaders(t *testing.T) {
	rec, logs := finalize(t, http.MethodGet, bconnect.ModeDevelopment, nil, nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "default-src 'none'", rec.Header().Get("Content-Security-Policy"))
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	require.Equal(t, strconv.Itoa(rec.Body.Len()), rec.Header().Get("Content-Length"))
	require.Contains(t, rec.Body.String(), "<pre>Cannot GET /some/path</pre>")
	require.Zero(t, logs.NumLogUnhandledError)
}

func TestFinalHandlerStatus(t *testing.T) {
	for name, tc := range map[string]struct {
		err     error
		pending int
		want    int
	}{
		"plain error":             {errors.New("x"), 0, http.StatusInternalServerError},
		"error code":              {bconnect.NewError(bconnect.CodeTeapot, errors.New("x")), 0, http.StatusTeapot},
		"error code beats status": {bconnect.NewError(bconnect.CodeGone, errors.New("x")), 503, http.StatusGone},
		"pending status":          {errors.New("x"), http.StatusBadGateway, http.StatusBadGateway},
		"success status ignored":  {errors.New("x"), http.StatusCreated, http.StatusInternalServerError},
		"unknown code":            {bconnect.NewError(900, errors.New("x")), 0, http.StatusInternalServerError},
	} {
		t.Run(name, func(t *testing.T) {
			rec, logs := finalize(t, http.MethodGet, bconnect.ModeDevelopment, tc.err, func(w bconnect.ResponseWriter) {
				if tc.pending != 0 {
					w.SetStatus(tc.pending)
				}
			})

			require.Equal(t, tc.want, rec.Code)
			require.Equal(t, int64(1), logs.NumLogUnhandledError)
		})
	}
}

func TestFinalHandlerProductionHidesDetails(t *testing.T) {
	rec, _ := finalize(t, http.MethodGet, bconnect.ModeProduction, errors.New("db password is hunter2"), nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "<pre>Internal Server Error</pre>")
	require.NotContains(t, rec.Body.String(), "hunter2")
}

func TestFinalHandlerHeadKeepsHeaders(t *testing.T) {
	rec, _ := finalize(t, http.MethodHead, bconnect.ModeDevelopment, errors.New("ack!"), nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Empty(t, rec.Body.String())
	require.NotEqual(t, "0", rec.Header().Get("Content-Length"))
	require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestFinalHandlerWritesNothingAfterHeadersSent(t *testing.T) {
	sent := func(w bconnect.ResponseWriter) { w.WriteHeader(http.StatusNoContent) }

	rec, logs := finalize(t, http.MethodGet, bconnect.ModeDevelopment, nil, sent)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Body.String())
	require.Zero(t, logs.NumLogTerminalSkipped)

	rec, logs = finalize(t, http.MethodGet, bconnect.ModeDevelopment, errors.New("ack!"), sent)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Empty(t, rec.Header().Get("Content-Security-Policy"))
	require.Equal(t, int64(1), logs.NumLogTerminalSkipped)
	require.Zero(t, logs.NumLogUnhandledError)
}

func TestFinalHandlerEscapesMethod(t *testing.T) {
	rec, _ := finalize(t, "GET&'", bconnect.ModeDevelopment, nil, nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "<pre>Cannot GET&amp;&#39; /some/path</pre>")
}
