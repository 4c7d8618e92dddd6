package chatclient

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestRoomURL(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
		room string
		want string
	}{
		{"default", func(*Config) {}, "lobby", "ws://127.0.0.1:3000/ws/lobby"},
		{"room is not escaped", func(*Config) {}, "a b/c", "ws://127.0.0.1:3000/ws/a b/c"},
		{"empty room", func(*Config) {}, "", "ws://127.0.0.1:3000/ws/"},
		{"wss and host", func(c *Config) { c.Scheme = "wss"; c.Host = "chat.example.com"; c.Port = 443 }, "r1", "wss://chat.example.com:443/ws/r1"},
		{"ipv6", func(c *Config) { c.Host = "::1" }, "r", "ws://[::1]:3000/ws/r"},
		{"prefix without slash", func(c *Config) { c.PathPrefix = "/rooms" }, "r", "ws://127.0.0.1:3000/rooms/r"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(&cfg)
			require.Equal(t, tt.want, cfg.RoomURL(tt.room))
		})
	}
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	tests := map[string]func(*Config){
		"scheme":        func(c *Config) { c.Scheme = "http" },
		"host":          func(c *Config) { c.Host = "" },
		"port":          func(c *Config) { c.Port = 70000 },
		"prefix":        func(c *Config) { c.PathPrefix = "ws/" },
		"target":        func(c *Config) { c.TargetID = "" },
		"tag":           func(c *Config) { c.MessageTag = "" },
		"timeout":       func(c *Config) { c.HandshakeTimeout = -time.Second },
		"write timeout": func(c *Config) { c.WriteTimeout = -time.Second },
	}
	for name, edit := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			edit(&cfg)
			require.True(t, errors.Is(cfg.Validate(), ErrInvalidConfig))
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "client.yaml")
	require.NoError(t, os.WriteFile(path, []byte("host: chat.local\nport: 8080\ntarget_id: log\nhandshake_timeout: 3s\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "chat.local", cfg.Host)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "log", cfg.TargetID)
	require.Equal(t, 3*time.Second, cfg.HandshakeTimeout)
	require.Equal(t, "ws", cfg.Scheme)
	require.Equal(t, "message", cfg.MessageClass)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("port: 0\n"), 0o600))
	_, err = LoadConfig(bad)
	require.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestStateTransitions(t *testing.T) {
	allowed := map[[2]State]bool{
		{Connecting, Open}:    true,
		{Connecting, Errored}: true,
		{Open, Closed}:        true,
		{Open, Errored}:       true,
	}
	states := []State{Connecting, Open, Closed, Errored}
	for _, from := range states {
		for _, to := range states {
			require.Equal(t, allowed[[2]State{from, to}], canTransition(from, to), "%s -> %s", from, to)
		}
	}
	require.True(t, Closed.Terminal())
	require.True(t, Errored.Terminal())
	require.False(t, Open.Terminal())
	require.Equal(t, "unknown", State(42).String())
}

func TestHandshakeFiresOnce(t *testing.T) {
	h := handshake{username: "alice"}
	var sent []string
	send := func(s string) error { sent = append(sent, s); return nil }

	fired, err := h.fire(send)
	require.True(t, fired)
	require.NoError(t, err)
	fired, err = h.fire(send)
	require.False(t, fired)
	require.NoError(t, err)
	require.Equal(t, []string{"alice"}, sent)
	require.True(t, h.sent.Load())

	failing := handshake{username: "bob"}
	fired, err = failing.fire(func(string) error { return errors.New("boom") })
	require.True(t, fired)
	require.Error(t, err)
	require.False(t, failing.sent.Load())
}
