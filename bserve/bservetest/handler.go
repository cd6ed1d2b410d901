package bservetest

import (
	"net/http"
	"net/http/httptest"

	"github.com/advdv/bconnect"
)

// CallHandler runs a single handler the way the dispatcher would and returns the recorded response
// together with the error the handler settled with. It handles the boilerplate of wrapping the
// recorder and the request.
func CallHandler(handler bconnect.Handler, req *http.Request) (*httptest.ResponseRecorder, error) {
	var stack bconnect.Stack
	stack.Register(bconnect.NormalEntry(bconnect.RootPath, handler))

	rec := httptest.NewRecorder()
	err := bconnect.NewDispatcher(bconnect.WithLogger(bconnect.NopLogger())).
		Dispatch(req.Context(), &stack, bconnect.NewResponseWriter(rec), bconnect.NewRequest(req))

	return rec, err
}
