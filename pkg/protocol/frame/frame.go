// Package frame implements the pipe wire format: a 4-byte little-endian
// payload length followed by exactly that many payload bytes. There is no
// terminator, checksum or channel field; the pipe is a reliable ordered
// byte stream.
//
//  0 ..3   Length  u32 LE (must be > 0)
//  4 ..    Payload [Length]byte
package frame

import (
    "encoding/binary"
    "errors"
    "fmt"
    "io"
    "math"
)

const (
    // HeaderSize is the length prefix size in bytes.
    HeaderSize = 4
    // MaxLength is the largest length the header can express.
    MaxLength = math.MaxUint32
    // DefaultMaxSize bounds payloads when no explicit limit is configured.
    DefaultMaxSize = 1 << 24
)

var (
    // ErrZeroLength marks a header that declares an empty payload.
    ErrZeroLength = errors.New("frame: zero length")
    // ErrTooLarge marks a payload above the configured maximum.
    ErrTooLarge = errors.New("frame: payload too large")
)

// FramingError describes a frame that violates the protocol.
type FramingError struct {
    Length uint64
    Max    uint64
    Err    error // ErrZeroLength or ErrTooLarge
}

func (e *FramingError) Error() string {
    if errors.Is(e.Err, ErrTooLarge) {
        return fmt.Sprintf("%v: %d > %d", e.Err, e.Length, e.Max)
    }
    return e.Err.Error()
}

func (e *FramingError) Unwrap() error { return e.Err }

// Check validates a payload length against max (0 = MaxLength).
func Check(n int, max uint32) error {
    limit := uint64(MaxLength)
    if max > 0 { limit = uint64(max) }
    switch {
    case n <= 0:
        return &FramingError{Err: ErrZeroLength, Max: limit}
    case uint64(n) > limit:
        return &FramingError{Length: uint64(n), Max: limit, Err: ErrTooLarge}
    }
    return nil
}

// PutHeader writes the length prefix for an n-byte payload into hdr.
func PutHeader(hdr []byte, n uint32) { binary.LittleEndian.PutUint32(hdr[:HeaderSize], n) }

// AppendFrame appends the framed payload to dst. The caller validates the
// payload size with Check.
func AppendFrame(dst, payload []byte) []byte {
    var hdr [HeaderSize]byte
    PutHeader(hdr[:], uint32(len(payload)))
    dst = append(dst, hdr[:]...)
    return append(dst, payload...)
}

// Encode returns a freshly allocated frame for payload.
func Encode(payload []byte, max uint32) ([]byte, error) {
    if err := Check(len(payload), max); err != nil { return nil, err }
    return AppendFrame(make([]byte, 0, HeaderSize+len(payload)), payload), nil
}

// DecodeHeader validates a 4-byte header and returns the payload length.
func DecodeHeader(hdr []byte, max uint32) (uint32, error) {
    if len(hdr) < HeaderSize {
        return 0, io.ErrUnexpectedEOF
    }
    n := binary.LittleEndian.Uint32(hdr[:HeaderSize])
    if n == 0 {
        return 0, &FramingError{Err: ErrZeroLength}
    }
    if max > 0 && n > max {
        return 0, &FramingError{Length: uint64(n), Max: uint64(max), Err: ErrTooLarge}
    }
    return n, nil
}

// Decode splits one frame off the front of buf, returning its payload and
// the remaining bytes. The payload aliases buf.
func Decode(buf []byte, max uint32) (payload, rest []byte, err error) {
    n, err := DecodeHeader(buf, max)
    if err != nil { return nil, buf, err }
    end := HeaderSize + int(n)
    if len(buf) < end {
        return nil, buf, io.ErrUnexpectedEOF
    }
    return buf[HeaderSize:end], buf[end:], nil
}

// ReadFrame reads one frame from r: first exactly HeaderSize bytes, then
// exactly the declared payload. It returns io.EOF when r ends cleanly before
// a header and io.ErrUnexpectedEOF when it ends inside a frame.
func ReadFrame(r io.Reader, max uint32) ([]byte, error) {
    var hdr [HeaderSize]byte
    if _, err := io.ReadFull(r, hdr[:]); err != nil { return nil, err }
    n, err := DecodeHeader(hdr[:], max)
    if err != nil { return nil, err }
    buf := make([]byte, n)
    if _, err := io.ReadFull(r, buf); err != nil {
        if errors.Is(err, io.EOF) { err = io.ErrUnexpectedEOF }
        return nil, err
    }
    return buf, nil
}

// WriteFull writes all of b, retrying short writes that report no error.
func WriteFull(w io.Writer, b []byte) (int, error) {
    total := 0
    for total < len(b) {
        n, err := w.Write(b[total:])
        total += n
        if err != nil && !errors.Is(err, io.ErrShortWrite) {
            return total, err
        }
        if n == 0 {
            return total, io.ErrNoProgress
        }
    }
    return total, nil
}

// WriteFrame frames payload and writes it to w as a single buffer so that
// concurrent writers on distinct frames never interleave partial frames.
func WriteFrame(w io.Writer, payload []byte, max uint32) error {
    b, err := Encode(payload, max)
    if err != nil { return err }
    _, err = WriteFull(w, b)
    return err
}
