package bconnect

import (
	"net/http"
	"sync"
)

// ResponseWriter extends http.ResponseWriter with the response state the dispatcher and the default
// terminal need: the status code and whether headers went out already.
type ResponseWriter interface {
	http.ResponseWriter
	// Status returns the status code that was sent, or that will be sent on the first write.
	Status() int
	// SetStatus changes the status code used when headers are sent implicitly by the first Write. It has
	// no effect once headers are sent.
	SetStatus(code int)
	// HeadersSent reports whether the status line and headers were written to the client.
	HeadersSent() bool
	// Size returns the number of body bytes written.
	Size() int
}

type responseWriter struct {
	http.ResponseWriter
	status int
	sent   bool
	size   int
}

var (
	_ ResponseWriter = (*responseWriter)(nil)
	_ http.Flusher   = (*responseWriter)(nil)
)

// NewResponseWriter wraps w. If w already is a [ResponseWriter] it is returned as-is so nested
// applications share the same response state.
func NewResponseWriter(w http.ResponseWriter) ResponseWriter {
	if rw, ok := w.(ResponseWriter); ok {
		return rw
	}

	return &responseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (rw *responseWriter) Status() int       { return rw.status }
func (rw *responseWriter) HeadersSent() bool { return rw.sent }
func (rw *responseWriter) Size() int         { return rw.size }

func (rw *responseWriter) SetStatus(code int) {
	if rw.sent {
		return
	}

	rw.status = code
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.sent {
		return
	}

	rw.status = code
	rw.sent = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.sent {
		rw.WriteHeader(rw.status)
	}

	n, err := rw.ResponseWriter.Write(b)
	rw.size += n

	return n, err
}

// Flush implements http.Flusher. Headers are sent when they were not yet.
func (rw *responseWriter) Flush() {
	if !rw.sent {
		rw.WriteHeader(rw.status)
	}

	_ = http.NewResponseController(rw.ResponseWriter).Flush()
}

// Unwrap returns the underlying http.ResponseWriter so http.ResponseController can reach it.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// sealableWriter hands a step's writer to a handler that may outlive the step. Once sealed the handler
// no longer reaches the underlying writer: writes fail with http.ErrHandlerTimeout and the response state
// it sees is frozen at the moment of sealing.
type sealableWriter struct {
	mu     sync.Mutex
	w      ResponseWriter
	sealed bool

	header http.Header
	status int
	sent   bool
	size   int
}

var (
	_ ResponseWriter = (*sealableWriter)(nil)
	_ http.Flusher   = (*sealableWriter)(nil)
)

func newSealableWriter(w ResponseWriter) *sealableWriter {
	return &sealableWriter{w: w}
}

// seal detaches the handler. It waits for a write that is in progress.
func (sw *sealableWriter) seal() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.sealed, sw.header = true, http.Header{}
	if sw.w != nil {
		sw.status, sw.sent, sw.size = sw.w.Status(), sw.w.HeadersSent(), sw.w.Size()
		if h := sw.w.Header().Clone(); h != nil {
			sw.header = h
		}
	}
}

func (sw *sealableWriter) Header() http.Header {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.sealed {
		return sw.header
	}

	return sw.w.Header()
}

func (sw *sealableWriter) Write(b []byte) (int, error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.sealed {
		return 0, http.ErrHandlerTimeout
	}

	return sw.w.Write(b)
}

func (sw *sealableWriter) WriteHeader(code int) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if !sw.sealed {
		sw.w.WriteHeader(code)
	}
}

func (sw *sealableWriter) SetStatus(code int) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if !sw.sealed {
		sw.w.SetStatus(code)
	}
}

func (sw *sealableWriter) Status() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.sealed {
		return sw.status
	}

	return sw.w.Status()
}

func (sw *sealableWriter) HeadersSent() bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.sealed {
		return sw.sent
	}

	return sw.w.HeadersSent()
}

func (sw *sealableWriter) Size() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.sealed {
		return sw.size
	}

	return sw.w.Size()
}

func (sw *sealableWriter) Flush() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.sealed {
		return
	}

	if f, ok := sw.w.(http.Flusher); ok {
		f.Flush()
	}
}
