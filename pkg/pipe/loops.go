package pipe

import (
    "bufio"
    "context"
    "errors"
    "fmt"
    "net"
    "time"

    "go.uber.org/zap"

    "pipeipc/pkg/event"
    "pipeipc/pkg/protocol/frame"
    "pipeipc/pkg/transport"
)

const (
    readBufferSize = 4096
    // writeBufferRetain caps the frame buffer kept between writes.
    writeBufferRetain = 1 << 20
)

// aLongTimeAgo is a deadline in the past; setting it wakes every blocked
// Read and Write on the connection immediately.
var aLongTimeAgo = time.Unix(1, 0)

func (p *Pipe) acceptTask() error {
    p.log.Debug("awaiting connection")
    conn, err := p.ln.Accept(p.gctx)
    // one peer per lifetime: nobody else may attach
    if cerr := p.closeListener(); cerr != nil {
        p.log.Debug("close listener", zap.Error(cerr))
    }
    if err != nil {
        if p.gctx.Err() != nil {
            p.log.Debug("stopped waiting for connection")
            return p.gctx.Err()
        }
        err = fmt.Errorf("%w: accept: %w", ErrIO, err)
        if p.transition(StateListening, StateFailed) {
            p.setErr(err)
            p.log.Error("accept failed", zap.Error(err))
        }
        return err
    }

    p.connMu.Lock()
    p.conn = conn
    p.connMu.Unlock()
    if !p.transition(StateListening, StateConnected) {
        // Close won the race
        _ = p.closeConn()
        return p.gctx.Err()
    }
    p.log.Info("client connected")
    p.startIO(conn)
    return nil
}

// startIO ties conn to the cancellation context, announces the peer and
// launches both loops.
func (p *Pipe) startIO(conn net.Conn) {
    context.AfterFunc(p.gctx, func() { _ = conn.SetDeadline(aLongTimeAgo) })
    p.events.Emit(event.Connect, nil)
    p.tasks.Go(func() error { return p.readLoop(conn) })
    p.tasks.Go(func() error { return p.writeLoop(conn) })
}

func (p *Pipe) readLoop(conn net.Conn) error {
    br := bufio.NewReaderSize(conn, readBufferSize)
    for {
        msg, err := frame.ReadFrame(br, p.opts.MaxMessageSize)
        if err != nil {
            return p.ioFailure("read", err)
        }
        if p.gctx.Err() != nil {
            return p.gctx.Err()
        }
        if err := p.inbound.PushWait(p.gctx, msg); err != nil {
            return p.gctx.Err()
        }
        p.opts.Metrics.FrameIn(p.name, len(msg))
        p.reportDepth()
        p.events.Emit(event.Read, nil)
    }
}

func (p *Pipe) writeLoop(conn net.Conn) error {
    buf := make([]byte, 0, readBufferSize)
    for {
        msg, err := p.outbound.Pop(p.gctx)
        if err != nil {
            return p.gctx.Err()
        }
        buf = frame.AppendFrame(buf[:0], msg)
        if _, err := frame.WriteFull(conn, buf); err != nil {
            return p.ioFailure("write", err)
        }
        p.unsent.Add(-1)
        if cap(buf) > writeBufferRetain {
            buf = make([]byte, 0, readBufferSize)
        }
        p.opts.Metrics.FrameOut(p.name, len(msg))
        p.reportDepth()
        p.events.Emit(event.Write, msg)
    }
}

// ioFailure classifies an error that ended a loop, records the resulting
// state and returns it so the sibling loop is cancelled too.
func (p *Pipe) ioFailure(op string, err error) error {
    if p.gctx.Err() != nil {
        // cancellation interrupted the call through the deadline
        return p.gctx.Err()
    }
    var fe *frame.FramingError
    switch {
    case errors.As(err, &fe):
        p.opts.Metrics.ProtocolError(p.name)
        err = fmt.Errorf("%w: %w", ErrProtocolViolation, err)
        if p.transition(StateConnected, StateFailed) {
            p.setErr(err)
            p.log.Error("invalid frame from peer", zap.Error(err))
        }
    case transport.IsPeerClosed(err):
        err = fmt.Errorf("%w: %s: %w", ErrConnectionClosed, op, err)
        if p.transition(StateConnected, StateDisconnected) {
            p.setErr(err)
            p.log.Info("client disconnected", zap.String("op", op))
        }
    default:
        err = fmt.Errorf("%w: %s: %w", ErrIO, op, err)
        if p.transition(StateConnected, StateFailed) {
            p.setErr(err)
            p.log.Error("pipe i/o failed", zap.String("op", op), zap.Error(err))
        }
    }
    return err
}
