package config

import (
    "os"
    "path/filepath"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
    t.Setenv("PIPEIPC_CONFIG", "")
    cfg, err := Load("")
    require.NoError(t, err)
    assert.Equal(t, "pipeipc", cfg.Pipe.Name)
    assert.EqualValues(t, DefaultMaxMessageSize, cfg.Pipe.MaxMessageSize)
    assert.Equal(t, time.Second, cfg.Pipe.CloseTimeout())
}

func TestLoadFileAndEnv(t *testing.T) {
    dir := t.TempDir()
    path := filepath.Join(dir, "pipeipc.yaml")
    yaml := "log:\n  level: debug\npipe:\n  name: cvClient\n  backend: MEM\n  max_message_size: 1024\n  outbound_limit: 8\n"
    require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
    t.Setenv("PIPEIPC_PIPE_INBOUND_LIMIT", "16")

    cfg, err := Load(path)
    require.NoError(t, err)
    assert.Equal(t, "debug", cfg.Log.Level)
    assert.Equal(t, "cvClient", cfg.Pipe.Name)
    assert.Equal(t, "mem", cfg.Pipe.Backend)
    assert.EqualValues(t, 1024, cfg.Pipe.MaxMessageSize)
    assert.Equal(t, 8, cfg.Pipe.OutboundLimit)
    assert.Equal(t, 16, cfg.Pipe.InboundLimit)
}

func TestValidateRejects(t *testing.T) {
    dir := t.TempDir()
    cases := map[string]string{
        "level":   "log:\n  level: loud\n",
        "size":    "pipe:\n  max_message_size: 0\n",
        "backend": "pipe:\n  backend: tcp\n",
        "limit":   "pipe:\n  outbound_limit: -1\n",
    }
    for name, body := range cases {
        path := filepath.Join(dir, name+".yaml")
        require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
        _, err := Load(path)
        assert.Error(t, err, name)
    }
}
