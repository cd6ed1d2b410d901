package bconnect

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

// ErrAwaitNext can be returned by a handler to signal that it has not settled yet and that its outcome
// will arrive through the [Next] continuation instead, possibly from another goroutine.
var ErrAwaitNext = errors.New("bconnect: await next")

// Next is the continuation handed to every handler. Calling it with nil reports success, calling it with
// an error reports that error. Only the first signal of an invocation counts.
type Next func(err error)

// Handler is a Normal-kind pipeline step. It only runs while no error is pending. The returned error
// settles the step just like calling next would, unless it is [ErrAwaitNext].
type Handler interface {
	ServeConnect(w ResponseWriter, r *Request, next Next) error
}

// HandlerFunc allows casting a function to implement [Handler].
type HandlerFunc func(w ResponseWriter, r *Request, next Next) error

// ServeConnect implements the [Handler] interface.
func (f HandlerFunc) ServeConnect(w ResponseWriter, r *Request, next Next) error {
	return f(w, r, next)
}

// NextFunc is a callback-only handler: it settles exclusively through next.
type NextFunc func(w ResponseWriter, r *Request, next Next)

// ServeConnect implements the [Handler] interface.
func (f NextFunc) ServeConnect(w ResponseWriter, r *Request, next Next) error {
	f(w, r, next)
	return ErrAwaitNext
}

// ErrorHandler is an Error-kind pipeline step. It receives the pending error as its first argument, which
// is nil when the step runs while nothing failed. Settling without an error clears the pending error.
type ErrorHandler interface {
	ServeConnectError(err error, w ResponseWriter, r *Request, next Next) error
}

// ErrorHandlerFunc allows casting a function to implement [ErrorHandler].
type ErrorHandlerFunc func(err error, w ResponseWriter, r *Request, next Next) error

// ServeConnectError implements the [ErrorHandler] interface.
func (f ErrorHandlerFunc) ServeConnectError(err error, w ResponseWriter, r *Request, next Next) error {
	return f(err, w, r, next)
}

// ErrorNextFunc is a callback-only error handler: it settles exclusively through next.
type ErrorNextFunc func(err error, w ResponseWriter, r *Request, next Next)

// ServeConnectError implements the [ErrorHandler] interface.
func (f ErrorNextFunc) ServeConnectError(err error, w ResponseWriter, r *Request, next Next) error {
	f(err, w, r, next)
	return ErrAwaitNext
}

// FromStd converts a standard library handler into a [Handler]. The step settles successfully as soon as
// ServeHTTP returns.
func FromStd(h http.Handler) Handler {
	return HandlerFunc(func(w ResponseWriter, r *Request, _ Next) error {
		h.ServeHTTP(w, r.Request)
		return nil
	})
}

// classify turns any supported handler value into an entry. Error-kind detection takes precedence, it is
// the counterpart of recognizing handlers by their (err, req, res, next) signature.
func classify(path string, h any) (Entry, bool) {
	switch h := h.(type) {
	case ErrorHandler:
		return ErrorEntry(path, h), true
	case func(error, ResponseWriter, *Request, Next) error:
		return ErrorEntry(path, ErrorHandlerFunc(h)), true
	case func(error, ResponseWriter, *Request, Next):
		return ErrorEntry(path, ErrorNextFunc(h)), true
	case Handler:
		return NormalEntry(path, h), true
	case func(ResponseWriter, *Request, Next) error:
		return NormalEntry(path, HandlerFunc(h)), true
	case func(ResponseWriter, *Request, Next):
		return NormalEntry(path, NextFunc(h)), true
	case http.Handler:
		return NormalEntry(path, FromStd(h)), true
	case func(http.ResponseWriter, *http.Request):
		return NormalEntry(path, FromStd(http.HandlerFunc(h))), true
	default:
		return Entry{}, false
	}
}
