package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"go.hackfix.me/hypersphere/app"
	aerrors "go.hackfix.me/hypersphere/app/errors"
)

func main() {
	// A .env file is optional, and only used to set environment overrides.
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	configFile := filepath.Join(xdg.ConfigHome, "hypersphere", "config.yaml")
	a, err := app.New("hypersphere", configFile,
		app.WithContext(ctx),
		app.WithFDs(
			os.Stdin,
			colorable.NewColorable(os.Stdout),
			colorable.NewColorable(os.Stderr),
		),
		app.WithFS(osfs.New()),
		app.WithLogger(isatty.IsTerminal(os.Stderr.Fd())),
	)
	if err != nil {
		aerrors.Log(nil, err)
		os.Exit(1)
	}

	if err = a.Run(os.Args[1:]); err != nil {
		aerrors.Log(nil, err)
		cancel()
		os.Exit(1) //nolint:gocritic // cancel is called explicitly.
	}
}
