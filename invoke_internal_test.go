package bconnect

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestSettlementFirstSignalWins(t *testing.T) {
	var late int64
	s := newSettlement(func(error) { atomic.AddInt64(&late, 1) })

	first := errors.New("first")
	s.settle(first)
	s.settle(nil)
	s.settle(errors.New("third"))

	<-s.done
	require.Equal(t, first, s.err)
	require.Equal(t, int64(2), atomic.LoadInt64(&late))
	require.False(t, s.trySettle(nil))
}

func TestInvokeReturnSettles(t *testing.T) {
	iv := invoker{logs: NewTestLogger(t)}
	boom := errors.New("boom")

	require.NoError(t, iv.invoke("/", nil, func(ResponseWriter, Next) error { return nil }))
	require.Equal(t, boom, iv.invoke("/", nil, func(ResponseWriter, Next) error { return boom }))
}

func TestInvokeNextBeforeReturn(t *testing.T) {
	logs := NewTestLogger(t)
	iv := invoker{logs: logs}
	boom := errors.New("boom")

	err := iv.invoke("/", nil, func(_ ResponseWriter, next Next) error {
		next(boom)
		next(nil)

		return nil
	})

	require.Equal(t, boom, err)
	require.Equal(t, int64(2), logs.NumLogLateSettle)
}

func TestInvokeReturnBeforeNext(t *testing.T) {
	logs := NewTestLogger(t)
	iv := invoker{logs: logs}
	release, signalled := make(chan struct{}), make(chan struct{})

	err := iv.invoke("/", nil, func(_ ResponseWriter, next Next) error {
		go func() {
			defer close(signalled)
			<-release
			next(errors.New("too late"))
		}()

		return nil
	})

	close(release)
	<-signalled
	require.NoError(t, err)
	require.Equal(t, int64(1), atomic.LoadInt64(&logs.NumLogLateSettle))
}

func TestInvokeAwaitNext(t *testing.T) {
	iv := invoker{logs: NewTestLogger(t)}
	boom := errors.New("boom")

	err := iv.invoke("/", nil, func(_ ResponseWriter, next Next) error {
		go func() {
			time.Sleep(5 * time.Millisecond)
			next(boom)
		}()

		return ErrAwaitNext
	})

	require.Equal(t, boom, err)
}

func TestInvokePanicIsFault(t *testing.T) {
	iv := invoker{logs: NewTestLogger(t)}
	boom := errors.New("boom")

	require.Equal(t, boom, iv.invoke("/", nil, func(ResponseWriter, Next) error { panic(boom) }))

	err := iv.invoke("/", nil, func(ResponseWriter, Next) error { panic("some panic") })
	require.EqualError(t, err, "panic: some panic")
}

func TestInvokePanicAfterNext(t *testing.T) {
	logs := NewTestLogger(t)
	iv := invoker{logs: logs}

	err := iv.invoke("/", nil, func(_ ResponseWriter, next Next) error {
		next(nil)
		panic("ignored")
	})

	require.NoError(t, err)
	require.Equal(t, int64(1), logs.NumLogLateSettle)
}

func TestInvokeAbortHandlerPanics(t *testing.T) {
	iv := invoker{logs: NewTestLogger(t)}

	require.PanicsWithValue(t, http.ErrAbortHandler, func() {
		_ = iv.invoke("/", nil, func(ResponseWriter, Next) error { panic(http.ErrAbortHandler) })
	})
}

func TestInvokeSettleTimeout(t *testing.T) {
	iv := invoker{logs: NewTestLogger(t), settleTimeout: 10 * time.Millisecond}

	err := iv.invoke("/slow", nil, func(ResponseWriter, Next) error { return ErrAwaitNext })
	require.ErrorIs(t, err, ErrSettleTimeout)
	require.Equal(t, CodeServiceUnavailable, CodeOf(err))
	require.Contains(t, err.Error(), `entry at "/slow"`)

	require.NoError(t, iv.invoke("/fast", nil, func(ResponseWriter, Next) error { return nil }))
}

func TestInvokeSettleTimeoutBoundsBlockingHandler(t *testing.T) {
	logs := NewTestLogger(t)
	iv := invoker{logs: logs, settleTimeout: 20 * time.Millisecond}
	release, returned := make(chan struct{}), make(chan struct{})

	err := iv.invoke("/blocking", nil, func(ResponseWriter, Next) error {
		defer close(returned)
		<-release

		return nil
	})

	require.ErrorIs(t, err, ErrSettleTimeout)

	close(release)
	<-returned
	require.Eventually(t, func() bool {
		return atomic.LoadInt64(&logs.NumLogLateSettle) == 1
	}, time.Second, time.Millisecond)
}

func TestInvokeSettleTimeoutKeepsOutcome(t *testing.T) {
	iv := invoker{logs: NewTestLogger(t), settleTimeout: time.Second}
	boom := errors.New("boom")

	require.Same(t, boom, iv.invoke("/", nil, func(ResponseWriter, Next) error { return boom }))
	require.Same(t, boom, iv.invoke("/", nil, func(ResponseWriter, Next) error { panic(boom) }))
}

func TestInvokeSettleTimeoutAbortHandlerPanics(t *testing.T) {
	iv := invoker{logs: NewTestLogger(t), settleTimeout: time.Second}

	require.PanicsWithValue(t, http.ErrAbortHandler, func() {
		_ = iv.invoke("/", nil, func(ResponseWriter, Next) error { panic(http.ErrAbortHandler) })
	})
}

func TestInvokeSettleTimeoutSealsWriter(t *testing.T) {
	iv := invoker{logs: NewTestLogger(t), settleTimeout: 10 * time.Millisecond}
	rec := httptest.NewRecorder()
	w := NewResponseWriter(rec)

	var written int
	var writeErr error
	stopped := make(chan struct{})

	err := iv.invoke("/", w, func(hw ResponseWriter, next Next) error {
		go func() {
			defer close(stopped)
			for {
				if _, writeErr = hw.Write([]byte("x")); writeErr != nil {
					return
				}

				written++
				time.Sleep(time.Millisecond)
			}
		}()

		return ErrAwaitNext
	})

	require.ErrorIs(t, err, ErrSettleTimeout)

	// the step is over, the writer belongs to the dispatcher again
	_, _ = w.Write([]byte("!"))
	<-stopped

	require.ErrorIs(t, writeErr, http.ErrHandlerTimeout)
	require.Equal(t, written+1, rec.Body.Len())
	require.Equal(t, written+1, w.Size())
}

func TestSealableWriterFreezesState(t *testing.T) {
	rec := httptest.NewRecorder()
	w := NewResponseWriter(rec)
	sw := newSealableWriter(w)

	sw.Header().Set("X-Before", "1")
	sw.SetStatus(http.StatusAccepted)
	sw.seal()

	sw.Header().Set("X-After", "1")
	sw.SetStatus(http.StatusTeapot)
	sw.WriteHeader(http.StatusTeapot)
	sw.Flush()

	require.Equal(t, http.StatusAccepted, sw.Status())
	require.False(t, sw.HeadersSent())
	require.Zero(t, sw.Size())
	require.Equal(t, "1", sw.Header().Get("X-Before"))
	require.Empty(t, w.Header().Get("X-After"))
	require.Equal(t, http.StatusAccepted, w.Status())
	require.False(t, w.HeadersSent())
}
