// Package pipe implements a single-peer, message-oriented duplex pipe.
//
// A Pipe owns one OS endpoint (a Windows named pipe, a Unix domain socket,
// or an in-process pipe) and up to three goroutines: an accept task that
// waits for the peer, and a read loop and write loop that run once it is
// attached. Messages travel as length-prefixed frames (see package frame).
// Received messages land in an inbound queue and are announced with the
// event.Read notification; outgoing messages are queued by Send and written
// in order by the write loop.
//
// Every blocking call is tied to one cancellation context. Close cancels it,
// which interrupts pending accepts and I/O through connection deadlines,
// waits for the goroutines, and releases the endpoint exactly once.
package pipe

import (
    "bytes"
    "context"
    "errors"
    "fmt"
    "net"
    "strings"
    "sync"
    "sync/atomic"

    "github.com/google/uuid"
    "go.uber.org/multierr"
    "go.uber.org/zap"
    "golang.org/x/sync/errgroup"

    "pipeipc/pkg/core/msgq"
    "pipeipc/pkg/event"
    "pipeipc/pkg/protocol/frame"
    "pipeipc/pkg/transport"
)

// Message is one received or queued payload. Queued messages are private
// copies; a Message handed out by TryReceive or Receive belongs to the caller.
type Message []byte

// Pipe is the transport for one peer connection. Create it with New (server
// side) or Dial (client side) and release it with Close.
type Pipe struct {
    name string
    path string
    id   string
    opts Options
    log  *zap.Logger

    state atomic.Int32
    // unsent counts accepted messages not yet fully written.
    unsent atomic.Int64

    events   *event.Registry
    outbound *msgq.Queue
    inbound  *msgq.Queue

    // ctx is the shared cancellation signal; gctx additionally ends when
    // either I/O loop stops.
    ctx    context.Context
    cancel context.CancelFunc
    tasks  *errgroup.Group
    gctx   context.Context
    done   chan struct{}

    ln     transport.Listener
    lnOnce sync.Once

    connMu sync.Mutex
    conn   net.Conn

    errMu sync.Mutex
    err   error

    releaseOnce sync.Once
    closeOnce   sync.Once
    closeErr    error
}

func newPipe(name string, opts Options) (*Pipe, error) {
    if strings.TrimSpace(name) == "" {
        return nil, fmt.Errorf("%w: empty pipe name", ErrConstruction)
    }
    opts = opts.withDefaults()
    id := uuid.NewString()
    p := &Pipe{
        name:     name,
        path:     opts.Backend.Path(name),
        id:       id,
        opts:     opts,
        events:   event.NewRegistry(),
        outbound: msgq.New(opts.OutboundLimit),
        inbound:  msgq.New(opts.InboundLimit),
        done:     make(chan struct{}),
    }
    p.log = opts.Logger.Named("pipe").With(
        zap.String("pipe", name),
        zap.String("id", id[:8]),
        zap.Stringer("backend", opts.Backend.Kind()),
    )
    for ev, h := range opts.Handlers {
        if _, err := p.events.On(ev, h); err != nil {
            return nil, fmt.Errorf("%w: handler for %s: %w", ErrConstruction, ev, err)
        }
    }
    p.ctx, p.cancel = context.WithCancel(context.Background())
    p.tasks, p.gctx = errgroup.WithContext(p.ctx)
    p.setState(StateCreated)
    return p, nil
}

// New creates the pipe endpoint for name and starts waiting for a peer in
// the background. Failure to create the endpoint is returned here; the
// returned Pipe is always backed by a live endpoint.
func New(name string, opts Options) (*Pipe, error) {
    p, err := newPipe(name, opts)
    if err != nil { return nil, err }
    ln, err := p.opts.Backend.Listen(p.ctx, name)
    if err != nil {
        p.cancel()
        p.log.Error("pipe failed to start", zap.String("path", p.path), zap.Error(err))
        return nil, fmt.Errorf("%w: listen %s: %w", ErrConstruction, p.path, err)
    }
    p.ln = ln
    p.setState(StateListening)
    p.log.Info("pipe created", zap.String("path", p.path))

    p.tasks.Go(p.acceptTask)
    go p.reap()
    return p, nil
}

// Dial connects to a pipe created by New in another process (or another
// Pipe in this one) and starts the I/O loops.
func Dial(ctx context.Context, name string, opts Options) (*Pipe, error) {
    p, err := newPipe(name, opts)
    if err != nil { return nil, err }
    conn, err := p.opts.Backend.Dial(ctx, name)
    if err != nil {
        p.cancel()
        return nil, fmt.Errorf("%w: dial %s: %w", ErrConstruction, p.path, err)
    }
    p.connMu.Lock()
    p.conn = conn
    p.connMu.Unlock()
    p.setState(StateConnected)
    p.log.Info("connected to pipe", zap.String("path", p.path))

    p.startIO(conn)
    go p.reap()
    return p, nil
}

// Name returns the pipe name passed to New or Dial.
func (p *Pipe) Name() string { return p.name }

// Path returns the platform address the name was translated to.
func (p *Pipe) Path() string { return p.path }

// State returns the current lifecycle state.
func (p *Pipe) State() State { return State(p.state.Load()) }

// Err returns the error that ended the I/O loops, or nil. A peer disconnect
// yields an error wrapping ErrConnectionClosed.
func (p *Pipe) Err() error {
    p.errMu.Lock()
    defer p.errMu.Unlock()
    return p.err
}

// MaxMessageSize returns the effective payload limit.
func (p *Pipe) MaxMessageSize() uint32 { return p.opts.MaxMessageSize }

// Pending reports how many sent messages have not been fully written yet.
func (p *Pipe) Pending() int { return int(p.unsent.Load()) }

// Done is closed once every worker goroutine has exited.
func (p *Pipe) Done() <-chan struct{} { return p.done }

// On registers h for ev. See event.Registry.On.
func (p *Pipe) On(ev event.Event, h event.Handler) (event.ListenerID, error) {
    return p.events.On(ev, h)
}

// RemoveListener removes the listener registered under (ev, id).
func (p *Pipe) RemoveListener(ev event.Event, id event.ListenerID) error {
    return p.events.RemoveListener(ev, id)
}

// RemoveAllListeners removes every listener of ev.
func (p *Pipe) RemoveAllListeners(ev event.Event) error {
    return p.events.RemoveAllListeners(ev)
}

// Send queues a copy of b for the write loop. Sends made before the peer
// attaches are delivered, in order, once it does.
func (p *Pipe) Send(b []byte) error {
    if st := p.State(); !st.acceptsSend() {
        return fmt.Errorf("%w: %s", ErrNotConnected, st)
    }
    if err := frame.Check(len(b), p.opts.MaxMessageSize); err != nil {
        if errors.Is(err, frame.ErrZeroLength) { return ErrEmptyPayload }
        return fmt.Errorf("%w: %d > %d bytes", ErrPayloadTooLarge, len(b), p.opts.MaxMessageSize)
    }
    p.unsent.Add(1)
    if err := p.outbound.Push(bytes.Clone(b)); err != nil {
        p.unsent.Add(-1)
        if errors.Is(err, msgq.ErrFull) { return ErrQueueFull }
        return fmt.Errorf("%w: %s", ErrNotConnected, p.State())
    }
    p.reportDepth()
    return nil
}

// TryReceive pops the oldest received message without blocking.
func (p *Pipe) TryReceive() (Message, bool) {
    b, ok := p.inbound.TryPop()
    if ok { p.reportDepth() }
    return b, ok
}

// Receive pops the oldest received message, waiting until one arrives, ctx
// is done, or the pipe stops producing messages. Messages received before
// the pipe stopped are still returned first.
func (p *Pipe) Receive(ctx context.Context) (Message, error) {
    b, err := p.inbound.Pop(ctx)
    if err == nil {
        p.reportDepth()
        return b, nil
    }
    if !errors.Is(err, msgq.ErrClosed) { return nil, err }
    if p.State() == StateClosed { return nil, ErrClosed }
    if e := p.Err(); e != nil { return nil, e }
    return nil, fmt.Errorf("%w: %s", ErrNotConnected, p.State())
}

// Close cancels every pending operation, waits for the workers and releases
// the endpoint. It is safe to call in any state and more than once; it
// returns within Options.CloseTimeout even if a worker is stuck, in which
// case the handle is released forcibly and ErrCloseTimeout is returned.
// Close must not be called from an event handler.
func (p *Pipe) Close() error {
    p.closeOnce.Do(func() { p.closeErr = p.shutdown() })
    return p.closeErr
}

func (p *Pipe) shutdown() error {
    prev := State(p.state.Swap(int32(StateClosed)))
    p.opts.Metrics.State(p.name, int(StateClosed))
    p.log.Info("closing pipe", zap.Stringer("from", prev))
    p.cancel()
    p.outbound.Close()

    var err error
    timer := p.opts.Clock.Timer(p.opts.CloseTimeout)
    select {
    case <-p.done:
        timer.Stop()
    case <-timer.C:
        p.log.Warn("workers outlived close grace period; releasing handle", zap.Duration("timeout", p.opts.CloseTimeout))
        err = ErrCloseTimeout
    }
    err = multierr.Append(err, p.release())
    p.log.Debug("pipe closed")
    return err
}

// release closes the listener and connection exactly once.
func (p *Pipe) release() error {
    var err error
    p.releaseOnce.Do(func() {
        err = multierr.Append(p.closeListener(), p.closeConn())
    })
    return err
}

func (p *Pipe) closeListener() error {
    var err error
    p.lnOnce.Do(func() {
        if p.ln != nil { err = p.ln.Close() }
    })
    return err
}

func (p *Pipe) closeConn() error {
    p.connMu.Lock()
    c := p.conn
    p.conn = nil
    p.connMu.Unlock()
    if c == nil { return nil }
    return c.Close()
}

func (p *Pipe) setState(s State) {
    p.state.Store(int32(s))
    p.opts.Metrics.State(p.name, int(s))
}

// transition moves from -> to atomically and reports whether it happened.
func (p *Pipe) transition(from, to State) bool {
    if !p.state.CompareAndSwap(int32(from), int32(to)) { return false }
    p.opts.Metrics.State(p.name, int(to))
    return true
}

func (p *Pipe) setErr(err error) {
    p.errMu.Lock()
    if p.err == nil { p.err = err }
    p.errMu.Unlock()
}

func (p *Pipe) reportDepth() {
    if p.opts.Metrics == nil { return }
    p.opts.Metrics.QueueDepth(p.name, p.outbound.Len(), p.inbound.Len())
}

// reap waits for the workers, then closes the queues so that blocked
// receivers and late senders learn that nothing more will move.
func (p *Pipe) reap() {
    err := p.tasks.Wait()
    p.inbound.Close()
    p.outbound.Close()
    if err != nil && !errors.Is(err, context.Canceled) {
        p.log.Debug("workers exited", zap.Error(err))
    }
    close(p.done)
}
