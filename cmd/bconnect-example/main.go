// Package main runs an example server that echoes requests as JSON.
package main

import (
	"net/http"

	"github.com/advdv/bconnect"
	"github.com/advdv/bconnect/bserve"
	"github.com/advdv/bconnect/internal/example"
	"go.uber.org/zap"
)

// Env configures the example server.
type Env struct {
	bserve.BaseEnvironment
	StaticDir    string `env:"EXAMPLE_STATIC_DIR" envDefault:"."`
	MaxBodyBytes int64  `env:"EXAMPLE_MAX_BODY_BYTES" envDefault:"1048576"`
}

func routing(app *bconnect.App, env Env, logs *zap.Logger) {
	app.Use(example.Logger(logs))
	app.Mount("/static", http.FileServer(http.Dir(env.StaticDir)))
	app.Use(example.JSONBody(env.MaxBodyBytes))
	app.UseAt("/", bconnect.HandlerFunc(func(w bconnect.ResponseWriter, r *bconnect.Request, next bconnect.Next) error {
		if r.Pathname != "/" || (r.Method != http.MethodGet && r.Method != http.MethodPost) {
			return nil
		}

		return example.Echo(w, r, next)
	}))
	app.UseError(example.JSONErrors())
}

func main() {
	bserve.New[Env](routing).Run()
}
