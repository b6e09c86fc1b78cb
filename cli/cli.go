package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"go.hackfix.me/hypersphere/app/config"
	actx "go.hackfix.me/hypersphere/app/context"
	"go.hackfix.me/hypersphere/catalog"
	"go.hackfix.me/hypersphere/parse"
)

// CLI is the command line interface of Hypersphere.
type CLI struct {
	Serve      Serve      `kong:"cmd,help='Start the web server.'"`
	Eval       Eval       `kong:"cmd,help='Evaluate a request against a resource and show how it was resolved.'"`
	Resources  Resources  `kong:"cmd,help='List configured resources.'"`
	Credential Credential `kong:"cmd,help='Generate credentials for resource authentication.'"`

	Log struct {
		Level slog.Level `enum:"DEBUG,INFO,WARN,ERROR" default:"INFO" help:"Set the app logging level."`
	} `embed:"" prefix:"log-"`
	// Configuration is loaded separately from the CLI, so that it can be
	// overridden by environment variables and shared with the server.
	ConfigFile string           `kong:"default='${configFile}',help='Path to the Hypersphere configuration file.'"`
	Version    kong.VersionFlag `kong:"help='Output version and exit.'"`

	kong *kong.Kong
	kctx *kong.Context
}

// New initializes the command-line interface.
func New(configFilePath, version string) (*CLI, error) {
	c := &CLI{}
	kparser, err := kong.New(c,
		kong.Name("hypersphere"),
		kong.Description("Evaluate HTTP requests against declarative resources."),
		kong.UsageOnError(),
		kong.DefaultEnvars("HYPERSPHERE"),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"configFile": configFilePath,
			"version":    version,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed creating the Kong parser: %w", err)
	}

	c.kong = kparser

	return c, nil
}

// Execute starts the command execution. Parse must be called before this method.
func (c *CLI) Execute(appCtx *actx.Context) error {
	if c.kctx == nil {
		panic("the CLI wasn't initialized properly")
	}
	c.kong.Stdout = appCtx.Stdout
	c.kong.Stderr = appCtx.Stderr

	//nolint:wrapcheck // This is fine.
	return c.kctx.Run(appCtx)
}

// Parse the given command line arguments. This method must be called before
// Execute.
func (c *CLI) Parse(args []string) error {
	kctx, err := c.kong.Parse(args)
	if err != nil {
		return fmt.Errorf("failed parsing CLI arguments: %w", err)
	}
	c.kctx = kctx

	return nil
}

// Command returns the full path of the executed command.
func (c *CLI) Command() string {
	if c.kctx == nil {
		panic("the CLI wasn't initialized properly")
	}
	cmdPath := []string{}
	for _, p := range c.kctx.Path {
		if p.Command != nil {
			cmdPath = append(cmdPath, p.Command.Name)
		}
	}

	return strings.Join(cmdPath, " ")
}

// ApplyConfig applies configuration values to the CLI, but only if they weren't
// already set.
func (c *CLI) ApplyConfig(cfg *config.Config) {
	if c.Serve.Address == "" {
		c.Serve.Address = cfg.Server.Address
	}
}

func loadCatalog(appCtx *actx.Context) (*catalog.Catalog, error) {
	cat, err := catalog.New(appCtx.Config.Resources, parse.Default())
	if err != nil {
		return nil, fmt.Errorf("failed loading resources from '%s': %w", appCtx.Config.Path(), err)
	}
	return cat, nil
}
