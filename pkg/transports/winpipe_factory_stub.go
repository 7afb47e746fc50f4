//go:build !windows

package transports

import (
    "fmt"

    "pipeipc/pkg/transport"
)

func newWinPipeBackend(Options) (transport.Backend, error) {
    return nil, fmt.Errorf("winpipe backend is not supported on this platform")
}
