//go:build !windows

package transport

import (
    "errors"

    "golang.org/x/sys/unix"
)

func isPlatformPeerClosed(err error) bool {
    return errors.Is(err, unix.EPIPE) || errors.Is(err, unix.ECONNRESET) || errors.Is(err, unix.ENOTCONN)
}
