// Package bservetest provides test helpers for bserve applications.
//
// It constructs the identical DI graph as [bserve.New] but uses [fxtest.App] which fails the test
// immediately on DI errors.
//
// Example:
//
//	bservetest.SetBaseEnv(t)
//	app := bservetest.New[TestEnv](t, routing)
//	app.RequireStart()
//	t.Cleanup(app.RequireStop)
//
//	status, body := bservetest.Get(t, app.URL("/items"))
package bservetest

import (
	"net/http"
	"testing"

	"github.com/advdv/bconnect"
	"github.com/advdv/bconnect/bserve"
	"github.com/carlmjohnson/requests"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

// App embeds *fxtest.App for testing bserve applications.
type App struct {
	*fxtest.App
	conn *bconnect.App
}

// New creates a test app with the same DI graph as [bserve.New].
func New[E bserve.Environment](t testing.TB, routing any, opts ...bserve.Option) *App {
	var conn *bconnect.App
	fxOpts := append(bserve.FxOptions[E](routing, opts...), fx.Populate(&conn))

	app := fxtest.New(t, fxOpts...)

	return &App{App: app, conn: conn}
}

// Connect returns the middleware application of the test app.
func (a *App) Connect() *bconnect.App { return a.conn }

// URL returns the url of path on the started app.
func (a *App) URL(path string) string {
	addr := a.conn.Address()
	if addr == nil {
		panic("bservetest: app is not listening; call RequireStart first")
	}

	return "http://" + addr.String() + path
}

// Get performs a GET request and returns the status code and body. Any status is accepted, transport
// failures fail the test.
func Get(tb testing.TB, url string) (int, string) {
	tb.Helper()

	var status int
	var body string
	if err := requests.
		URL(url).
		AddValidator(func(res *http.Response) error {
			status = res.StatusCode
			return nil
		}).
		ToString(&body).
		Fetch(tb.Context()); err != nil {
		tb.Fatalf("bservetest: GET %s: %v", url, err)
	}

	return status, body
}
