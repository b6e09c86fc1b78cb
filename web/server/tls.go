package server

import (
	"crypto/tls"
	"fmt"

	"github.com/mandelsoft/vfs/pkg/vfs"
)

// defaultTLSConfig returns a TLS configuration that only accepts TLS 1.3 with
// curves that have constant-time implementations.
func defaultTLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion:       tls.VersionTLS13,
		CurvePreferences: []tls.CurveID{tls.X25519, tls.CurveP256},
	}
}

// loadTLSConfig reads a PEM encoded certificate chain and private key from fs.
func loadTLSConfig(fs vfs.FileSystem, certFile, keyFile string) (*tls.Config, error) {
	certPEM, err := vfs.ReadFile(fs, certFile)
	if err != nil {
		return nil, fmt.Errorf("failed reading TLS certificate: %w", err)
	}
	keyPEM, err := vfs.ReadFile(fs, keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed reading TLS private key: %w", err)
	}

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed loading TLS key pair: %w", err)
	}

	cfg := defaultTLSConfig()
	cfg.Certificates = []tls.Certificate{cert}

	return cfg, nil
}
