package bserve

import (
	"net/http"

	"github.com/advdv/bconnect"
	"github.com/carlmjohnson/requests"
)

// Runtime provides access to app-scoped dependencies.
// Inject this into handler constructors via fx instead of pulling from context.
//
// Example:
//
//	type Handlers struct {
//	    rt *bserve.Runtime[Env]
//	}
//
//	func NewHandlers(rt *bserve.Runtime[Env]) *Handlers {
//	    return &Handlers{rt: rt}
//	}
//
//	func (h *Handlers) Quote(w bconnect.ResponseWriter, r *bconnect.Request, _ bconnect.Next) error {
//	    var quote string
//	    return h.rt.NewRequest().BaseURL(h.rt.Env().QuotesURL).ToString(&quote).Fetch(r.Context())
//	}
type Runtime[E Environment] struct {
	env       E
	app       *bconnect.App
	transport http.RoundTripper
}

// NewRuntime creates a new Runtime with the given dependencies.
func NewRuntime[E Environment](env E, app *bconnect.App, transport http.RoundTripper) *Runtime[E] {
	return &Runtime[E]{env: env, app: app, transport: transport}
}

// Env returns the environment configuration.
func (r *Runtime[E]) Env() E {
	return r.env
}

// App returns the middleware application that serves requests.
func (r *Runtime[E]) App() *bconnect.App {
	return r.app
}

// NewRequest returns a request builder for outbound calls. Calls made with it create child spans and
// propagate the trace context of the ctx passed to Fetch.
func (r *Runtime[E]) NewRequest() *requests.Builder {
	return newRequestBuilder(r.transport)
}
