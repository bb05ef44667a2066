package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"ethconnect/config"
	"ethconnect/connect"
)

// parseOptions runs the app with args and returns what loadOptions built.
func parseOptions(t *testing.T, args ...string) (connect.Options, error) {
	t.Helper()
	var (
		opts    connect.Options
		loadErr error
	)
	app := newApp(func(cCtx *cli.Context) error {
		opts, loadErr = loadOptions(cCtx)
		return nil
	})
	require.NoError(t, app.Run(append([]string{"ethconnect"}, args...)))
	return opts, loadErr
}

func TestLoadOptions_Defaults(t *testing.T) {
	opts, err := parseOptions(t)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), opts)
}

func TestLoadOptions_Flags(t *testing.T) {
	opts, err := parseOptions(t,
		"--http", "http://10.0.0.5:8545",
		"--ipc", "/var/run/geth.ipc",
		"--fallback-http", "https://eth9000.example",
		"--fallback-http", "https://eth9001.example",
		"--fallback-ws", "wss://eth9000.example/ws",
		"--no-fallback",
		"--from", "0xd00d",
	)
	require.NoError(t, err)
	assert.Equal(t, connect.Options{
		HTTP:         "http://10.0.0.5:8545",
		WS:           config.DefaultWS,
		IPC:          "/var/run/geth.ipc",
		FallbackHTTP: []string{"https://eth9000.example", "https://eth9001.example"},
		FallbackWS:   "wss://eth9000.example/ws",
		NoFallback:   true,
		From:         "0xd00d",
	}, opts)
}

func TestLoadOptions_FlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ethconnect.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
http = "http://10.0.0.5:8545"
fallback_http = ["https://eth9000.example"]
from = "0xb0b"

[contracts.3]
token = "0xC3"
`), 0o644))

	opts, err := parseOptions(t, "--config", path, "--from", "0xd00d")
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:8545", opts.HTTP)
	assert.Equal(t, []string{"https://eth9000.example"}, opts.FallbackHTTP)
	assert.Equal(t, "0xd00d", opts.From)
	assert.Equal(t, connect.ContractRegistry{"3": {"token": "0xC3"}}, opts.Contracts)
}

func TestLoadOptions_Invalid(t *testing.T) {
	_, err := parseOptions(t, "--http", "localhost")
	assert.ErrorIs(t, err, connect.ErrInvalidOptions)

	_, err = parseOptions(t, "--config", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{verbosity: 0, want: log.LevelCrit},
		{verbosity: 2, want: log.LevelWarn},
		{verbosity: 3, want: log.LevelInfo},
		{verbosity: 5, want: log.LevelTrace},
	}
	for _, tt := range tests {
		got, err := logLevel(tt.verbosity)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "verbosity %d", tt.verbosity)
	}

	_, err := logLevel(6)
	assert.Error(t, err)
	_, err = logLevel(-1)
	assert.Error(t, err)
}
