package bconnect

import (
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrSettleTimeout is reported, wrapped in a 503 [*Error], when a step does not settle within the
// timeout configured with [WithSettleTimeout].
var ErrSettleTimeout = errors.New("bconnect: handler did not settle in time")

// settlement is a one-shot completion slot. Whichever signal arrives first is kept, everything after
// that is dropped.
type settlement struct {
	once sync.Once
	done chan struct{}
	err  error
	late func(err error)
}

func newSettlement(late func(err error)) *settlement {
	return &settlement{done: make(chan struct{}), late: late}
}

func (s *settlement) trySettle(err error) (settled bool) {
	s.once.Do(func() {
		s.err = err
		settled = true
		close(s.done)
	})

	return settled
}

func (s *settlement) settle(err error) {
	if !s.trySettle(err) && s.late != nil {
		s.late(err)
	}
}

// errAborted carries an http.ErrAbortHandler panic out of the handler goroutine so it can be re-raised
// on the goroutine that serves the request.
var errAborted = errors.New("bconnect: handler aborted")

// invoker turns a single handler call into exactly one outcome, no matter if the handler settles by
// calling next, by returning or by panicking.
type invoker struct {
	logs          Logger
	settleTimeout time.Duration
}

func (iv invoker) invoke(path string, w ResponseWriter, call func(w ResponseWriter, next Next) error) error {
	s := newSettlement(func(err error) { iv.logs.LogLateSettle(path, err) })

	var err error
	if iv.settleTimeout <= 0 {
		iv.run(s, w, call)
		<-s.done // a handler that never settles stalls the request here
		err = s.err
	} else {
		err = iv.runWithTimeout(path, s, w, call)
	}

	if err == errAborted { //nolint:errorlint
		panic(http.ErrAbortHandler)
	}

	return err
}

func (iv invoker) run(s *settlement, w ResponseWriter, call func(w ResponseWriter, next Next) error) {
	defer func() {
		if p := recover(); p != nil {
			if p == http.ErrAbortHandler { //nolint:errorlint,goerr113
				s.settle(errAborted)
				return
			}

			s.settle(recoverFault(p))
		}
	}()

	if err := call(w, s.settle); !errors.Is(err, ErrAwaitNext) {
		s.settle(err)
	}
}

// runWithTimeout calls the handler on its own goroutine so that blocking inside the handler is bounded
// too. A handler that misses the deadline keeps running, but its writer is sealed.
func (iv invoker) runWithTimeout(
	path string, s *settlement, w ResponseWriter, call func(w ResponseWriter, next Next) error,
) error {
	sw := newSealableWriter(w)
	go iv.run(s, sw, call)

	timer := time.NewTimer(iv.settleTimeout)
	defer timer.Stop()

	select {
	case <-s.done:
	case <-timer.C:
		if s.trySettle(NewError(CodeServiceUnavailable,
			errors.Wrapf(ErrSettleTimeout, "entry at %q after %s", path, iv.settleTimeout))) {
			sw.seal()
		}
	}

	<-s.done

	return s.err
}

// recoverFault turns a recovered panic value into the fault it represents. Error values are kept as-is
// so that a panic is indistinguishable from reporting the same error through next.
func recoverFault(p any) error {
	if p == http.ErrAbortHandler { //nolint:errorlint,goerr113
		panic(p)
	}

	if err, ok := p.(error); ok {
		return err
	}

	return errors.Newf("panic: %v", p)
}
