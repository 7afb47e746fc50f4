//go:build windows

package winpipe

import (
    "context"
    "net"

    "github.com/Microsoft/go-winio"

    "pipeipc/pkg/transport"
)

// Options tunes the pipe instance created by Listen.
type Options struct {
    // InputBufferSize and OutputBufferSize are the kernel buffer sizes in bytes.
    InputBufferSize  int32
    OutputBufferSize int32
    // SecurityDescriptor is an SDDL string; empty uses the default DACL.
    SecurityDescriptor string
}

// Backend creates byte-mode duplex named pipes.
type Backend struct{ opts Options }

func New(opts Options) *Backend {
    if opts.InputBufferSize <= 0 { opts.InputBufferSize = 4096 }
    if opts.OutputBufferSize <= 0 { opts.OutputBufferSize = 4096 }
    return &Backend{opts: opts}
}

func (b *Backend) Kind() transport.Kind { return transport.KindWinPipe }

func (b *Backend) Path(name string) string { return Path(name) }

func (b *Backend) Listen(_ context.Context, name string) (transport.Listener, error) {
    l, err := winio.ListenPipe(b.Path(name), &winio.PipeConfig{
        SecurityDescriptor: b.opts.SecurityDescriptor,
        MessageMode:        false,
        InputBufferSize:    b.opts.InputBufferSize,
        OutputBufferSize:   b.opts.OutputBufferSize,
    })
    if err != nil { return nil, err }
    return transport.WrapListener(l), nil
}

func (b *Backend) Dial(ctx context.Context, name string) (net.Conn, error) {
    return winio.DialPipeContext(ctx, b.Path(name))
}
