// Package mem is an in-process backend built on net.Pipe. It behaves like a
// local pipe (synchronous, ordered, deadline-aware) and is used by tests and
// by callers embedding both ends in one process.
package mem

import (
    "context"
    "errors"
    "net"
    "sync"

    "pipeipc/pkg/transport"
)

var (
    ErrExists   = errors.New("mem: listener already exists")
    ErrNoListener = errors.New("mem: no such listener")
)

// Backend keeps a namespace of listeners. Distinct Backend values do not
// see each other's names.
type Backend struct {
    mu        sync.Mutex
    listeners map[string]*listener
}

func New() *Backend { return &Backend{listeners: make(map[string]*listener)} }

func (b *Backend) Kind() transport.Kind { return transport.KindMem }

func (b *Backend) Path(name string) string { return "mem://" + name }

func (b *Backend) Listen(_ context.Context, name string) (transport.Listener, error) {
    b.mu.Lock(); defer b.mu.Unlock()
    if _, ok := b.listeners[name]; ok {
        return nil, ErrExists
    }
    l := &listener{b: b, name: name, newCh: make(chan net.Conn), closeCh: make(chan struct{})}
    b.listeners[name] = l
    return l, nil
}

// Dial hands the server end of a fresh net.Pipe to the listener and waits
// until it is accepted.
func (b *Backend) Dial(ctx context.Context, name string) (net.Conn, error) {
    b.mu.Lock(); l := b.listeners[name]; b.mu.Unlock()
    if l == nil { return nil, ErrNoListener }
    srv, cli := net.Pipe()
    select {
    case l.newCh <- srv:
        return cli, nil
    case <-l.closeCh:
        _ = srv.Close(); _ = cli.Close()
        return nil, transport.ErrListenerClosed
    case <-ctx.Done():
        _ = srv.Close(); _ = cli.Close()
        return nil, ctx.Err()
    }
}

type listener struct {
    b       *Backend
    name    string
    newCh   chan net.Conn
    closeCh chan struct{}
    once    sync.Once
}

func (l *listener) Addr() net.Addr { return memAddr(l.name) }

func (l *listener) Accept(ctx context.Context) (net.Conn, error) {
    select {
    case <-ctx.Done():
        return nil, ctx.Err()
    case <-l.closeCh:
        return nil, transport.ErrListenerClosed
    case c := <-l.newCh:
        return c, nil
    }
}

func (l *listener) Close() error {
    l.once.Do(func() {
        close(l.closeCh)
        l.b.mu.Lock()
        if l.b.listeners[l.name] == l { delete(l.b.listeners, l.name) }
        l.b.mu.Unlock()
    })
    return nil
}

type memAddr string

func (a memAddr) Network() string { return "mem" }
func (a memAddr) String() string  { return string(a) }
