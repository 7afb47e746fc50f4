package transport

import (
    "context"
    "errors"
    "net"
    "strings"
)

// Kind identifies the backend flavour.
type Kind int

const (
    KindUnknown Kind = iota
    KindWinPipe
    KindUnix
    KindMem
)

func (k Kind) String() string {
    switch k {
    case KindWinPipe:
        return "winpipe"
    case KindUnix:
        return "unix"
    case KindMem:
        return "mem"
    default:
        return "unknown"
    }
}

// ParseKind maps a configured backend name to its Kind.
func ParseKind(s string) Kind {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "winpipe", "namedpipe", "pipe":
        return KindWinPipe
    case "unix", "uds":
        return KindUnix
    case "mem", "memory":
        return KindMem
    default:
        return KindUnknown
    }
}

// ErrListenerClosed is returned by Accept after the listener was closed.
var ErrListenerClosed = errors.New("transport: listener closed")

// Listener accepts the inbound peer connection.
type Listener interface {
    // Accept blocks until a peer attaches, ctx is done, or the listener is closed.
    Accept(ctx context.Context) (net.Conn, error)
    // Addr returns the local listening address.
    Addr() net.Addr
    // Close stops the listener and unblocks Accept. Connections already
    // returned by Accept stay open.
    Close() error
}

// Backend opens duplex byte-stream endpoints identified by an opaque pipe name.
type Backend interface {
    Kind() Kind
    // Path translates a pipe name into the platform's addressing convention.
    Path(name string) string
    // Listen creates the endpoint synchronously; failure leaves nothing allocated.
    Listen(ctx context.Context, name string) (Listener, error)
    // Dial connects to an endpoint created by Listen.
    Dial(ctx context.Context, name string) (net.Conn, error)
}
