package server

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"io"
	"log/slog"
	"math/big"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/hypersphere/app/config"
	actx "go.hackfix.me/hypersphere/app/context"
	"go.hackfix.me/hypersphere/catalog"
)

// newTestCert returns a self-signed certificate for 127.0.0.1 and its private
// key, PEM encoded.
func newTestCert(t *testing.T) (certPEM, keyPEM []byte) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "hypersphere-test"},
		IPAddresses:           []net.IP{net.IPv4(127, 0, 0, 1)},
		NotBefore:             time.Now().Add(-time.Minute),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IsCA:                  true,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, pub, priv)
	require.NoError(t, err)

	keyDER, err := x509.MarshalPKCS8PrivateKey(priv)
	require.NoError(t, err)

	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}),
		pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER})
}

func TestTLS(t *testing.T) {
	t.Parallel()

	certPEM, keyPEM := newTestCert(t)
	fs := memoryfs.New()
	require.NoError(t, vfs.WriteFile(fs, "/cert.pem", certPEM, 0o600))
	require.NoError(t, vfs.WriteFile(fs, "/key.pem", keyPEM, 0o600))

	tlsCfg, err := loadTLSConfig(fs, "/cert.pem", "/key.pem")
	require.NoError(t, err)
	assert.Equal(t, uint16(tls.VersionTLS13), tlsCfg.MinVersion)

	cat, err := catalog.New([]config.Resource{{Name: "open", Path: "/open"}}, nil)
	require.NoError(t, err)

	ts := httptest.NewUnstartedServer(
		SetupHandlers(cat, slog.New(slog.NewTextHandler(io.Discard, nil)), false))
	ts.TLS = tlsCfg
	ts.StartTLS()
	defer ts.Close()

	pool := x509.NewCertPool()
	require.True(t, pool.AppendCertsFromPEM(certPEM))
	client := &http.Client{
		Transport: &http.Transport{TLSClientConfig: &tls.Config{RootCAs: pool}},
	}

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, ts.URL+"/open", nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, resp.TLS)
	assert.Equal(t, uint16(tls.VersionTLS13), resp.TLS.Version)
}

func TestNewTLSErrors(t *testing.T) {
	t.Parallel()

	fs := memoryfs.New()
	require.NoError(t, vfs.WriteFile(fs, "/cert.pem", []byte("not a cert"), 0o600))
	require.NoError(t, vfs.WriteFile(fs, "/key.pem", []byte("not a key"), 0o600))

	cat, err := catalog.New(nil, nil)
	require.NoError(t, err)

	newCtx := func(certFile, keyFile string) *actx.Context {
		cfg := &config.Config{}
		cfg.Server.TLSCertFile = certFile
		cfg.Server.TLSKeyFile = keyFile
		cfg.SetDefaults()
		return &actx.Context{
			FS:     fs,
			Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
			Config: cfg,
		}
	}

	_, err = New(newCtx("/missing.pem", "/key.pem"), ":0", cat)
	assert.ErrorContains(t, err, "failed reading TLS certificate")

	_, err = New(newCtx("/cert.pem", ""), ":0", cat)
	assert.ErrorContains(t, err, "failed reading TLS private key")

	_, err = New(newCtx("/cert.pem", "/key.pem"), ":0", cat)
	assert.ErrorContains(t, err, "failed loading TLS key pair")

	srv, err := New(newCtx("", ""), "127.0.0.1:0", cat)
	require.NoError(t, err)
	assert.Nil(t, srv.TLSConfig)
	assert.Equal(t, 30*time.Second, srv.ReadTimeout)
}
