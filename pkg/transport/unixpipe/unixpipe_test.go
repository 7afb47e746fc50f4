//go:build !windows

package unixpipe

import (
    "context"
    "io"
    "os"
    "path/filepath"
    "testing"
    "time"

    "github.com/google/uuid"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "pipeipc/pkg/transport"
)

func shortDir(t *testing.T) string {
    // sun_path is ~104 bytes; t.TempDir() can be longer on macOS
    dir, err := os.MkdirTemp("", "pipeipc")
    require.NoError(t, err)
    t.Cleanup(func() { _ = os.RemoveAll(dir) })
    return dir
}

func TestPath(t *testing.T) {
    b := New("/run/app")
    assert.Equal(t, filepath.Join("/run/app", "cv.sock"), b.Path("cv"))
    assert.Equal(t, "/tmp/x.sock", b.Path("/tmp/x.sock"))
    assert.Equal(t, transport.KindUnix, b.Kind())
}

func TestRoundtrip(t *testing.T) {
    b := New(shortDir(t))
    name := uuid.NewString()[:8]
    ctx := context.Background()
    l, err := b.Listen(ctx, name)
    require.NoError(t, err)
    defer l.Close()

    cli, err := b.Dial(ctx, name)
    require.NoError(t, err)
    defer cli.Close()

    srv, err := l.Accept(ctx)
    require.NoError(t, err)
    defer srv.Close()

    _, err = cli.Write([]byte("hi"))
    require.NoError(t, err)
    buf := make([]byte, 2)
    _, err = io.ReadFull(srv, buf)
    require.NoError(t, err)
    assert.Equal(t, "hi", string(buf))

    require.NoError(t, cli.Close())
    _, err = srv.Read(buf)
    assert.True(t, transport.IsPeerClosed(err), "err = %v", err)
}

func TestListenInUse(t *testing.T) {
    b := New(shortDir(t))
    ctx := context.Background()
    l, err := b.Listen(ctx, "busy")
    require.NoError(t, err)
    defer l.Close()
    _, err = b.Listen(ctx, "busy")
    assert.Error(t, err)
}

func TestAcceptHonoursContext(t *testing.T) {
    b := New(shortDir(t))
    l, err := b.Listen(context.Background(), "idle")
    require.NoError(t, err)
    defer l.Close()

    ctx, cancel := context.WithCancel(context.Background())
    go func() { time.Sleep(10 * time.Millisecond); cancel() }()
    start := time.Now()
    _, err = l.Accept(ctx)
    assert.ErrorIs(t, err, context.Canceled)
    assert.Less(t, time.Since(start), time.Second)
}
