//go:build windows

package transports

import (
    "pipeipc/pkg/transport"
    "pipeipc/pkg/transport/winpipe"
)

func newWinPipeBackend(opts Options) (transport.Backend, error) {
    return winpipe.New(winpipe.Options{
        InputBufferSize:  opts.InputBufferSize,
        OutputBufferSize: opts.OutputBufferSize,
    }), nil
}
