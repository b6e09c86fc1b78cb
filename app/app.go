package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mandelsoft/vfs/pkg/memoryfs"

	"go.hackfix.me/hypersphere/app/config"
	actx "go.hackfix.me/hypersphere/app/context"
	"go.hackfix.me/hypersphere/cli"
)

// App is the application.
type App struct {
	name string
	ctx  *actx.Context
	cli  *cli.CLI
	// the logging level is set via the CLI, if the app was initialized with the
	// WithLogger option.
	logLevel *slog.LevelVar
}

// New initializes a new application. configFilePath is the default path of
// the configuration file, which can be changed with the --config-file flag.
func New(name, configFilePath string, opts ...Option) (*App, error) {
	defaultCtx := &actx.Context{
		Ctx:     context.Background(),
		FS:      memoryfs.New(),
		Logger:  slog.Default(),
		Stdin:   strings.NewReader(""),
		Stdout:  io.Discard,
		Stderr:  io.Discard,
		Version: actx.GetVersion(),
	}
	app := &App{name: name, ctx: defaultCtx}

	for _, opt := range opts {
		opt(app)
	}

	var err error
	ver := fmt.Sprintf("%s %s", app.name, app.ctx.Version.String())
	app.cli, err = cli.New(configFilePath, ver)
	if err != nil {
		return nil, err
	}

	return app, nil
}

// Run initializes the application environment and starts execution of the
// application.
func (app *App) Run(args []string) error {
	if err := app.cli.Parse(args); err != nil {
		return err
	}

	if app.logLevel != nil {
		app.logLevel.Set(app.cli.Log.Level)
		slog.SetLogLoggerLevel(app.cli.Log.Level)
	}

	if app.ctx.Config == nil {
		cfg, err := config.Load(app.ctx.FS, app.cli.ConfigFile)
		if err != nil {
			return err
		}
		app.ctx.Config = cfg
	}
	app.cli.ApplyConfig(app.ctx.Config)

	app.ctx.Logger.Debug("running command",
		"command", app.cli.Command(), "config_file", app.ctx.Config.Path())

	return app.cli.Execute(app.ctx)
}
