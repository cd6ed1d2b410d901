package bconnect

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

// App owns a middleware stack and dispatches requests through it. It implements http.Handler.
type App struct {
	cfg        config
	stack      Stack
	dispatcher *Dispatcher
	serving    atomic.Bool

	mu        sync.Mutex
	server    *http.Server
	listener  net.Listener
	observers []func(err error)
}

// New creates an application with an empty stack.
func New(opts ...Option) *App {
	cfg := newConfig(opts...)

	return &App{
		cfg:        cfg,
		dispatcher: newDispatcher(cfg),
	}
}

// Use registers a Normal-kind handler on [RootPath].
func (a *App) Use(h Handler) { a.UseAt(RootPath, h) }

// UseAt registers a Normal-kind handler on path.
func (a *App) UseAt(path string, h Handler) { a.register(NormalEntry(path, h)) }

// UseError registers an Error-kind handler on [RootPath].
func (a *App) UseError(h ErrorHandler) { a.UseErrorAt(RootPath, h) }

// UseErrorAt registers an Error-kind handler on path.
func (a *App) UseErrorAt(path string, h ErrorHandler) { a.register(ErrorEntry(path, h)) }

// UseAny registers h on path, deriving its kind from its type. Error handlers, and functions with the
// error handler signature, become Error-kind entries. Handlers, functions with the handler signature and
// standard library handlers become Normal-kind entries. Any other value panics.
func (a *App) UseAny(path string, h any) {
	e, ok := classify(path, h)
	if !ok {
		panic(fmt.Sprintf("bconnect: unsupported handler type %T", h))
	}

	a.register(e)
}

// Stack returns the registered stack. It must be treated as read-only.
func (a *App) Stack() *Stack { return &a.stack }

func (a *App) register(e Entry) {
	a.ensureNoUseAfterServe()
	a.cfg.logs.LogRegister(e.Kind, e.Path)
	a.stack.Register(e)
}

func (a *App) ensureNoUseAfterServe() {
	if a.serving.Load() {
		panic("bconnect: cannot register middleware after serving requests")
	}
}

// HandleRequest dispatches the request through the stack and hands the final error to terminal. Without
// a terminal the default one, [FinalHandler], responds.
func (a *App) HandleRequest(w http.ResponseWriter, r *http.Request, terminal ...Terminal) {
	a.serving.Store(true)

	bw, req := NewResponseWriter(w), NewRequest(r)
	err := a.dispatcher.Dispatch(r.Context(), &a.stack, bw, req)

	if len(terminal) > 0 && terminal[0] != nil {
		terminal[0](err)
		return
	}

	FinalHandler(bw, req, a.cfg.mode, a.cfg.logs)(err)
}

// ServeHTTP makes the app implement the http.Handler interface.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.HandleRequest(w, r)
}

// Listen binds addr and serves the app on it in the background. Addresses that start with "unix:" or
// contain a "/" are unix sockets, anything else is a tcp "host:port". onReady, when given, is called
// once the address is bound. Bind and serve failures are also reported to the [App.OnError] observers.
func (a *App) Listen(addr string, onReady func()) error {
	return a.ListenWith(&http.Server{Handler: a, ReadHeaderTimeout: defaultReadHeaderTimeout}, addr, onReady)
}

// ListenWith is like [App.Listen] but serves with srv. A nil srv.Handler serves the app itself.
func (a *App) ListenWith(srv *http.Server, addr string, onReady func()) error {
	if srv.Handler == nil {
		srv.Handler = a
	}

	network, address := splitListenAddr(addr)
	ln, err := net.Listen(network, address)
	if err != nil {
		err = errors.Wrapf(err, "failed to listen on %q", addr)
		a.emitError(err)

		return err
	}

	a.mu.Lock()
	a.server, a.listener = srv, ln
	a.mu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.emitError(errors.Wrap(err, "failed to serve"))
		}
	}()

	if onReady != nil {
		onReady()
	}

	return nil
}

// Address returns the bound address, or nil when the app is not listening.
func (a *App) Address() net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.listener == nil {
		return nil
	}

	return a.listener.Addr()
}

// Close gracefully shuts down the server started by [App.Listen].
func (a *App) Close(ctx context.Context) error {
	a.mu.Lock()
	srv := a.server
	a.server, a.listener = nil, nil
	a.mu.Unlock()

	if srv == nil {
		return nil
	}

	if err := srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "failed to shut down")
	}

	return nil
}

// OnError registers an observer for listener-level faults. Request handling errors never reach it.
func (a *App) OnError(fn func(err error)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observers = append(a.observers, fn)
}

// ReportError forwards a listener-level fault to the observers, for servers that are not started
// through [App.Listen].
func (a *App) ReportError(err error) { a.emitError(err) }

func (a *App) emitError(err error) {
	a.cfg.logs.LogListenerError(err)

	a.mu.Lock()
	observers := append([]func(error){}, a.observers...)
	a.mu.Unlock()

	for _, fn := range observers {
		fn(err)
	}
}

func splitListenAddr(addr string) (network, address string) {
	if path, ok := strings.CutPrefix(addr, "unix:"); ok {
		return "unix", path
	}

	if strings.Contains(addr, "/") {
		return "unix", addr
	}

	return "tcp", addr
}
