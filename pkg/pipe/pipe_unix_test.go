//go:build !windows

package pipe

import (
    "context"
    "os"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "go.uber.org/zap/zaptest"

    "pipeipc/pkg/event"
    "pipeipc/pkg/transport/unixpipe"
)

func TestUnixSocketEndToEnd(t *testing.T) {
    dir, err := os.MkdirTemp("", "pipe")
    require.NoError(t, err)
    t.Cleanup(func() { _ = os.RemoveAll(dir) })
    b := unixpipe.New(dir)

    connected := make(chan struct{}, 1)
    srv, err := New("e2e", Options{
        Backend:  b,
        Logger:   zaptest.NewLogger(t),
        Handlers: map[event.Event]event.Handler{event.Connect: func([]byte) { connected <- struct{}{} }},
    })
    require.NoError(t, err)
    defer srv.Close()
    require.NoError(t, srv.Send([]byte("queued early")))

    cli, err := Dial(context.Background(), "e2e", Options{Backend: b, Logger: zaptest.NewLogger(t)})
    require.NoError(t, err)

    select {
    case <-connected:
    case <-time.After(2 * time.Second):
        t.Fatalf("server never saw the client")
    }

    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    m, err := cli.Receive(ctx)
    require.NoError(t, err)
    assert.Equal(t, "queued early", string(m))

    require.NoError(t, cli.Send([]byte("hi server")))
    m, err = srv.Receive(ctx)
    require.NoError(t, err)
    assert.Equal(t, "hi server", string(m))

    require.NoError(t, cli.Close())
    require.Eventually(t, func() bool { return srv.State() == StateDisconnected }, 2*time.Second, time.Millisecond)
    assert.ErrorIs(t, srv.Err(), ErrConnectionClosed)
}
