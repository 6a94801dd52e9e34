package app

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/godash/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/godash/internal/pkg/pkglog"
	"github.com/shandysiswandi/godash/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/godash/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/godash/internal/pkg/pkguid"
)

// Options are the command line inputs of the server.
type Options struct {
	// ConfigPath overrides the default config file location.
	ConfigPath string
}

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	options Options
	config  pkgconfig.Config
	secret  []byte

	// libraries
	uuid      pkguid.StringID
	snowflake pkguid.NumberID
	routines  *pkgroutine.Manager

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	//
	closerFn map[string]func(context.Context) error
}

func New(opts Options) *App {
	pkglog.InitLogging("info")

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:     ctx,
		cancel:  cancel,
		options: opts,
	}

	app.initConfig()
	app.initLibraries()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
