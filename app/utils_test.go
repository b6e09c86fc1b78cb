package app

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mandelsoft/vfs/pkg/memoryfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/stretchr/testify/require"
)

const testConfigPath = "/config.yaml"

type testApp struct {
	*App
	fs             vfs.FileSystem
	stdout, stderr *bytes.Buffer
}

// newTestApp returns an application that reads the configuration cfg, and
// stdin as standard input.
func newTestApp(t *testing.T, cfg, stdin string) *testApp {
	t.Helper()

	fs := memoryfs.New()
	if cfg != "" {
		require.NoError(t, vfs.WriteFile(fs, testConfigPath, []byte(cfg), 0o600))
	}

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	app, err := New("hypersphere", testConfigPath,
		WithContext(t.Context()),
		WithFDs(strings.NewReader(stdin), stdout, stderr),
		WithFS(fs),
	)
	require.NoError(t, err)

	return &testApp{App: app, fs: fs, stdout: stdout, stderr: stderr}
}

func (ta *testApp) Run(args ...string) error {
	ta.stdout.Reset()
	ta.stderr.Reset()
	return ta.App.Run(args)
}
