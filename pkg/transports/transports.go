// Package transports selects a transport backend by kind and platform.
package transports

import (
    "fmt"

    "pipeipc/pkg/transport"
    "pipeipc/pkg/transport/mem"
    "pipeipc/pkg/transport/unixpipe"
)

// Options carries backend-specific settings. Fields a backend does not use
// are ignored.
type Options struct {
    // Dir is the socket directory for the unix backend.
    Dir string
    // InputBufferSize and OutputBufferSize size Windows pipe buffers.
    InputBufferSize  int32
    OutputBufferSize int32
    // Mem is the namespace used for the mem backend; nil uses a process-wide one.
    Mem *mem.Backend
}

var sharedMem = mem.New()

// Default returns the native backend for this platform: named pipes on
// Windows, Unix domain sockets elsewhere.
func Default(opts Options) transport.Backend {
    b, err := newWinPipeBackend(opts)
    if err == nil { return b }
    return unixpipe.New(opts.Dir)
}

// NewByKind returns the backend for kind. KindUnknown selects Default.
func NewByKind(kind transport.Kind, opts Options) (transport.Backend, error) {
    switch kind {
    case transport.KindUnknown:
        return Default(opts), nil
    case transport.KindWinPipe:
        return newWinPipeBackend(opts)
    case transport.KindUnix:
        return unixpipe.New(opts.Dir), nil
    case transport.KindMem:
        if opts.Mem != nil { return opts.Mem, nil }
        return sharedMem, nil
    default:
        return nil, fmt.Errorf("transports: unsupported kind %v", kind)
    }
}
