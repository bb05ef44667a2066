package ethclient

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransportConfig_Candidates(t *testing.T) {
	cfg := TransportConfig{
		Local:  "http://127.0.0.1:8545",
		Hosted: []string{"https://eth9000.example", "", "https://eth9001.example"},
		WS:     "ws://127.0.0.1:8546",
		IPC:    "/tmp/geth.ipc",
	}

	got := cfg.candidates()
	want := []candidate{
		{kindIPC, "/tmp/geth.ipc"},
		{kindWS, "ws://127.0.0.1:8546"},
		{kindHTTP, "http://127.0.0.1:8545"},
		{kindHTTP, "https://eth9000.example"},
		{kindHTTP, "https://eth9001.example"},
	}
	assert.Equal(t, want, got)
	assert.Empty(t, TransportConfig{}.candidates())
}

func TestTransportConfig_Connection(t *testing.T) {
	tests := []struct {
		name string
		cfg  TransportConfig
		want *Connection
	}{
		{
			name: "first pass",
			cfg:  TransportConfig{Local: "http://127.0.0.1:8545", Hosted: []string{}, WS: "ws://127.0.0.1:8546"},
			want: &Connection{HTTP: []string{"http://127.0.0.1:8545"}, WS: "ws://127.0.0.1:8546"},
		},
		{
			name: "fallback pass",
			cfg:  TransportConfig{Hosted: []string{"https://eth9000.example"}, WS: "wss://eth9000.example/ws"},
			want: &Connection{HTTP: []string{"https://eth9000.example"}, WS: "wss://eth9000.example/ws"},
		},
		{
			name: "ipc only",
			cfg:  TransportConfig{IPC: "/tmp/geth.ipc"},
			want: &Connection{HTTP: []string{}, IPC: "/tmp/geth.ipc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Connection())
		})
	}
}

func TestConnection_Clone(t *testing.T) {
	assert.Nil(t, (*Connection)(nil).Clone())

	orig := &Connection{HTTP: []string{"http://127.0.0.1:8545"}, Active: "http://127.0.0.1:8545"}
	clone := orig.Clone()
	clone.HTTP[0] = "http://elsewhere"
	assert.Equal(t, "http://127.0.0.1:8545", orig.HTTP[0])
}

func TestConnect_LocalHTTP(t *testing.T) {
	server := nodeServer(t, "0xb0b")
	defer server.Close()

	client := New()
	defer client.Close()

	conn, err := client.Connect(context.Background(), TransportConfig{Local: server.URL})
	require.NoError(t, err)
	assert.Equal(t, &Connection{HTTP: []string{server.URL}, Active: server.URL}, conn)

	version, err := client.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3", version)
}

func TestConnect_SkipsDeadEndpoints(t *testing.T) {
	dead := nodeServer(t, "0xb0b")
	dead.Close()
	live := nodeServer(t, "0xb0b")
	defer live.Close()

	client := New()
	defer client.Close()

	cfg := TransportConfig{
		Hosted: []string{dead.URL, live.URL},
		IPC:    filepath.Join(t.TempDir(), "missing.ipc"),
	}
	conn, err := client.Connect(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, &Connection{HTTP: []string{dead.URL, live.URL}, IPC: cfg.IPC, Active: live.URL}, conn)
}

func TestConnect_WebSocketRejectedFallsBackToHTTP(t *testing.T) {
	// A plain HTTP server refuses the websocket upgrade.
	server := nodeServer(t, "0xb0b")
	defer server.Close()

	client := New()
	defer client.Close()

	wsURL := "ws" + server.URL[len("http"):]
	conn, err := client.Connect(context.Background(), TransportConfig{Local: server.URL, WS: wsURL})
	require.NoError(t, err)
	assert.Equal(t, &Connection{HTTP: []string{server.URL}, WS: wsURL, Active: server.URL}, conn)
}

func TestConnect_NoEndpoints(t *testing.T) {
	client := New()
	_, err := client.Connect(context.Background(), TransportConfig{Hosted: []string{}})
	assert.ErrorIs(t, err, ErrNoEndpoints)
}

func TestConnect_AllUnreachable(t *testing.T) {
	dead := nodeServer(t, "0xb0b")
	dead.Close()

	client := New()
	_, err := client.Connect(context.Background(), TransportConfig{Local: dead.URL})
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.Contains(t, err.Error(), dead.URL)

	_, err = client.BlockNumber(context.Background())
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestConnect_KeepsPreviousTransportOnFailure(t *testing.T) {
	live := nodeServer(t, "0xb0b")
	defer live.Close()
	dead := nodeServer(t, "0xb0b")
	dead.Close()

	client := New()
	defer client.Close()

	_, err := client.Connect(context.Background(), TransportConfig{Local: live.URL})
	require.NoError(t, err)

	_, err = client.Connect(context.Background(), TransportConfig{Local: dead.URL})
	require.Error(t, err)

	head, err := client.BlockNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0x2328", head)
}
