// Package bconnect dispatches HTTP requests through an ordered stack of path-scoped handlers that
// share an error channel.
//
// # Overview
//
// Handlers are registered on an [App] in order. For every request the app walks the stack once,
// in registration order, and runs each entry whose path matches the request path. Entries come in
// two kinds:
//
//   - Normal-kind entries ([Handler]) run only while no error is pending.
//   - Error-kind entries ([ErrorHandler]) run whenever their path matches. They receive the pending
//     error and may clear it (by settling without an error) or replace it.
//
// A minimal example:
//
//	app := bconnect.New()
//	app.UseAt("/api", bconnect.HandlerFunc(func(w bconnect.ResponseWriter, r *bconnect.Request, _ bconnect.Next) error {
//	    if r.Query.Get("id") == "" {
//	        return bconnect.NewError(bconnect.CodeBadRequest, errors.New("missing id"))
//	    }
//	    fmt.Fprintf(w, "item %s", r.Query.Get("id"))
//	    return nil
//	}))
//	app.UseError(bconnect.ErrorHandlerFunc(func(err error, w bconnect.ResponseWriter, r *bconnect.Request, _ bconnect.Next) error {
//	    if err == nil {
//	        return nil
//	    }
//	    w.WriteHeader(int(bconnect.CodeOf(err)))
//	    fmt.Fprint(w, "sorry")
//	    return nil
//	}))
//	http.ListenAndServe(":8080", app)
//
// Error-kind entries also run when nothing failed, they then receive a nil error and should settle
// without doing anything.
//
// # Path Scoping
//
// An entry registered on "/foo" runs for "/foo" and "/foo/bar" but not for "/foobar". Entries
// registered without a path, or on "/", run for every request. See [Matches].
//
// # Settling a Step
//
// Each handler receives a [Next] continuation. A step settles the first time one of these happens:
//
//   - the handler calls next, with nil for success or with an error;
//   - the handler returns, with nil for success or with an error, unless it returns [ErrAwaitNext];
//   - the handler panics, the panic value becomes the error.
//
// Everything after the first signal is ignored. A panic with an error value is indistinguishable
// from calling next with that error. Use [NextFunc] and [ErrorNextFunc] for handlers that only
// settle through next, for example from a goroutine:
//
//	app.Use(bconnect.NextFunc(func(w bconnect.ResponseWriter, r *bconnect.Request, next bconnect.Next) {
//	    go func() {
//	        next(lookup(r.Context()))
//	    }()
//	}))
//
// The dispatcher waits for every step to settle before looking at the next entry. A handler that
// never settles stalls its request; [WithSettleTimeout] bounds the wait and detaches late handlers
// from the response.
//
// # Request Context
//
// Every handler sees the request with the span of its own entry in the context. A handler passes values
// to the entries after it by replacing the request:
//
//	r.Request = r.WithContext(context.WithValue(r.Context(), userKey, user))
//
// # Terminal
//
// After the walk, the remaining error (or nil) is handed to the terminal passed to
// [App.HandleRequest]. Without one, [FinalHandler] responds: 404 when nothing failed, otherwise a
// status from the error's [Code], the response's pending status or 500. It writes nothing when the
// response was already sent.
//
// # Standard Library
//
// The app is an http.Handler. [App.UseStd] and [App.Mount] register standard library handlers,
// [App.Wrap] uses the app as middleware in front of another handler, and [App.Listen] serves it on
// a tcp address or unix socket.
package bconnect
