package mem

import (
    "context"
    "errors"
    "io"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "pipeipc/pkg/transport"
)

func TestListenDialAccept(t *testing.T) {
    b := New()
    ctx := context.Background()
    l, err := b.Listen(ctx, "p")
    require.NoError(t, err)
    defer l.Close()

    _, err = b.Listen(ctx, "p")
    assert.ErrorIs(t, err, ErrExists)

    type res struct {
        c   io.ReadWriteCloser
        err error
    }
    accepted := make(chan res, 1)
    go func() { c, err := l.Accept(ctx); accepted <- res{c, err} }()

    cli, err := b.Dial(ctx, "p")
    require.NoError(t, err)
    defer cli.Close()
    r := <-accepted
    require.NoError(t, r.err)
    defer r.c.Close()

    go func() { _, _ = cli.Write([]byte("ping")) }()
    buf := make([]byte, 4)
    _, err = io.ReadFull(r.c, buf)
    require.NoError(t, err)
    assert.Equal(t, "ping", string(buf))
    assert.Equal(t, "mem://p", b.Path("p"))
}

func TestAcceptCancel(t *testing.T) {
    b := New()
    l, err := b.Listen(context.Background(), "p")
    require.NoError(t, err)
    ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
    defer cancel()
    _, err = l.Accept(ctx)
    assert.ErrorIs(t, err, context.DeadlineExceeded)

    require.NoError(t, l.Close())
    _, err = l.Accept(context.Background())
    assert.True(t, errors.Is(err, transport.ErrListenerClosed))

    _, err = b.Dial(context.Background(), "p")
    assert.ErrorIs(t, err, ErrNoListener)
}
