package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/mandelsoft/vfs/pkg/vfs"
)

// EnvPrefix is the prefix of environment variables that override
// configuration file values, e.g. HYPERSPHERE_SERVER_ADDRESS sets
// server.address.
const EnvPrefix = "HYPERSPHERE_"

const keyDelim = "::"

// Config is the application configuration.
type Config struct {
	Server    Server     `koanf:"server"`
	Tracing   Tracing    `koanf:"tracing"`
	Resources []Resource `koanf:"resources"`

	path string
}

// Server defines configuration options specific to the HTTP server.
type Server struct {
	// Address is the network address in [host]:port format the server will listen on.
	Address           string        `koanf:"address"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	// ShutdownTimeout is the time in-flight requests are given to complete
	// when the server is stopped.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// TLSCertFile and TLSKeyFile are paths to PEM encoded files. If set, the
	// server only accepts HTTPS connections.
	TLSCertFile string `koanf:"tls_cert_file"`
	TLSKeyFile  string `koanf:"tls_key_file"`
}

// Tracing defines OpenTelemetry options.
type Tracing struct {
	Enabled     bool   `koanf:"enabled"`
	ServiceName string `koanf:"service_name"`
}

// Resource declares a resource served at Path. Zero values keep the default
// capabilities of resource.Base.
type Resource struct {
	Name string `koanf:"name"`
	Path string `koanf:"path"`
	// Available is a pointer so that an omitted key keeps the resource enabled.
	Available *bool `koanf:"available"`
	// KnownMethods are added to the default known methods.
	KnownMethods   []string `koanf:"known_methods"`
	AllowedMethods []string `koanf:"allowed_methods"`
	MaxURILength   int      `koanf:"max_uri_length"`
	MaxBodyLength  int64    `koanf:"max_body_length"`

	MediaTypes []string `koanf:"media_types"`
	Languages  []string `koanf:"languages"`
	Charsets   []string `koanf:"charsets"`
	Encodings  []string `koanf:"encodings"`

	// PathPattern is a regular expression request paths must match.
	PathPattern string `koanf:"path_pattern"`
	// AllowClients restricts access to client IP addresses in plain, CIDR or
	// range notation.
	AllowClients []string `koanf:"allow_clients"`
	Auth         Auth     `koanf:"auth"`
	// Roles maps role names to "METHOD:/path/glob" permissions.
	Roles map[string][]string `koanf:"roles"`
	// Users maps user names to role names.
	Users map[string][]string `koanf:"users"`
}

// Auth holds the credentials accepted by a resource.
type Auth struct {
	// Basic maps user names to bcrypt password hashes.
	Basic map[string]string `koanf:"basic"`
	// Tokens maps user names to hex-encoded SHA-256 digests of bearer tokens.
	Tokens map[string]string `koanf:"tokens"`
}

// Load reads the YAML configuration file at path from fs, and applies
// overrides from environment variables. A missing file results in the default
// configuration.
func Load(fs vfs.FileSystem, path string) (*Config, error) {
	// Map keys such as user names may contain dots, e.g. e-mail addresses.
	k := koanf.New(keyDelim)

	if err := k.Load(&fileProvider{fs: fs, path: path}, yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed loading configuration file: %w", err)
	}

	// HYPERSPHERE_SERVER_READ_TIMEOUT -> server::read_timeout
	err := k.Load(env.Provider(EnvPrefix, keyDelim, func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", keyDelim, 1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed loading configuration from environment: %w", err)
	}

	cfg := &Config{path: path}
	if err = k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed parsing configuration: %w", err)
	}
	cfg.SetDefaults()

	return cfg, nil
}

// Path returns the filesystem path the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

// SetDefaults sets default configuration values if they weren't set already.
func (c *Config) SetDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Server.ReadHeaderTimeout == 0 {
		c.Server.ReadHeaderTimeout = 10 * time.Second
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "hypersphere"
	}
}

// fileProvider is a koanf.Provider that reads a file from a vfs.FileSystem.
type fileProvider struct {
	fs   vfs.FileSystem
	path string
}

var _ koanf.Provider = (*fileProvider)(nil)

// ReadBytes implements the koanf.Provider interface.
func (p *fileProvider) ReadBytes() ([]byte, error) {
	data, err := vfs.ReadFile(p.fs, p.path)
	if err != nil && !vfs.IsErrNotExist(err) {
		return nil, fmt.Errorf("failed reading '%s': %w", p.path, err)
	}

	// Ensure that parsing doesn't fail if the file doesn't exist or is empty.
	if len(strings.TrimSpace(string(data))) == 0 {
		data = []byte("{}")
	}

	return data, nil
}

// Read implements the koanf.Provider interface. It's not supported, since the
// file contents need a parser.
func (p *fileProvider) Read() (map[string]any, error) {
	return nil, fmt.Errorf("%T does not support Read()", p)
}
