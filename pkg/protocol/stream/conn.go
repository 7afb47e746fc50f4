// Package stream speaks the frame format synchronously over any
// io.ReadWriter. It suits peers that drive the connection from a single
// goroutine, such as helper processes and tests.
package stream

import (
    "bufio"
    "io"
    "net"

    "pipeipc/pkg/protocol/frame"
)

// Conn sends and receives whole frames on rw. It is not safe for concurrent
// Sends or concurrent Recvs.
type Conn struct {
    rw  io.ReadWriter
    br  *bufio.Reader
    bw  *bufio.Writer
    max uint32
}

// New wraps rw; max bounds payloads in both directions (0 means frame.DefaultMaxSize).
func New(rw io.ReadWriter, max uint32) *Conn {
    if max == 0 { max = frame.DefaultMaxSize }
    return &Conn{rw: rw, br: bufio.NewReader(rw), bw: bufio.NewWriter(rw), max: max}
}

func NewNetConn(c net.Conn, max uint32) *Conn { return New(c, max) }

// Send writes one frame and flushes it.
func (c *Conn) Send(payload []byte) error {
    if err := frame.WriteFrame(c.bw, payload, c.max); err != nil { return err }
    return c.bw.Flush()
}

// Recv reads the next frame's payload.
func (c *Conn) Recv() ([]byte, error) { return frame.ReadFrame(c.br, c.max) }

// Close closes rw when it is an io.Closer.
func (c *Conn) Close() error {
    if cl, ok := c.rw.(io.Closer); ok { return cl.Close() }
    return nil
}
