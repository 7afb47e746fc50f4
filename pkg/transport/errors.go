package transport

import (
    "errors"
    "io"
)

// IsPeerClosed reports whether err means the remote end went away: a clean
// EOF, an EOF inside a frame, or a platform broken-pipe condition. A closed
// in-process pipe also matches, so callers rule out a local close first.
func IsPeerClosed(err error) bool {
    if err == nil { return false }
    if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.ErrClosedPipe) {
        return true
    }
    return isPlatformPeerClosed(err)
}
