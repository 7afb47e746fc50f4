package transport

import (
    "context"
    "net"
    "sync"
)

// NetListener adapts a net.Listener to Listener. A background goroutine
// accepts connections so that Accept can wait on ctx at the same time.
type NetListener struct {
    l       net.Listener
    newCh   chan net.Conn
    errCh   chan error
    closeCh chan struct{}
    once    sync.Once
}

// WrapListener starts accepting on l.
func WrapListener(l net.Listener) *NetListener {
    nl := &NetListener{
        l:       l,
        newCh:   make(chan net.Conn),
        errCh:   make(chan error, 1),
        closeCh: make(chan struct{}),
    }
    go nl.acceptLoop()
    return nl
}

func (nl *NetListener) Addr() net.Addr { return nl.l.Addr() }

func (nl *NetListener) Accept(ctx context.Context) (net.Conn, error) {
    select {
    case <-ctx.Done():
        return nil, ctx.Err()
    case <-nl.closeCh:
        return nil, ErrListenerClosed
    case c := <-nl.newCh:
        return c, nil
    case err := <-nl.errCh:
        return nil, err
    }
}

func (nl *NetListener) Close() (err error) {
    nl.once.Do(func() {
        close(nl.closeCh)
        err = nl.l.Close()
    })
    return err
}

func (nl *NetListener) acceptLoop() {
    for {
        c, err := nl.l.Accept()
        if err != nil {
            select {
            case <-nl.closeCh:
            case nl.errCh <- err:
            }
            return
        }
        select {
        case nl.newCh <- c:
        case <-nl.closeCh:
            _ = c.Close()
            return
        }
    }
}
