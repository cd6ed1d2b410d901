package bconnect

import "net/http"

// Middleware is the standard library middleware shape.
type Middleware func(http.Handler) http.Handler

// Wrap uses the app as standard library middleware in front of next. When the walk ends without a pending
// error next serves the request, otherwise the default terminal renders the error. Entries that already
// sent a response do not stop next from running; next should check [ResponseWriter.HeadersSent] when
// that matters.
func (a *App) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bw := NewResponseWriter(w)
		a.HandleRequest(bw, r, func(err error) {
			if err != nil {
				FinalHandler(bw, NewRequest(r), a.cfg.mode, a.cfg.logs)(err)
				return
			}

			next.ServeHTTP(bw, r)
		})
	})
}

// Chain wraps h with m. The middleware provided first is the outermost one and sees the request first.
func Chain(h http.Handler, m ...Middleware) http.Handler {
	for i := len(m) - 1; i >= 0; i-- {
		h = m[i](h)
	}

	return h
}
