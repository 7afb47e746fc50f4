// Package unixpipe implements the pipe backend on Unix domain stream sockets.
package unixpipe

import (
    "context"
    "errors"
    "fmt"
    "net"
    "os"
    "path/filepath"
    "strings"
    "time"

    "pipeipc/pkg/transport"
)

// Backend maps pipe names to socket files inside Dir.
type Backend struct {
    dir string
}

// New returns a backend rooted at dir; an empty dir uses os.TempDir().
func New(dir string) *Backend {
    if strings.TrimSpace(dir) == "" { dir = os.TempDir() }
    return &Backend{dir: dir}
}

func (b *Backend) Kind() transport.Kind { return transport.KindUnix }

// Path returns <dir>/<name>.sock. Names containing a path separator are
// taken as socket paths verbatim.
func (b *Backend) Path(name string) string {
    if strings.ContainsAny(name, `/\`) {
        return name
    }
    return filepath.Join(b.dir, name+".sock")
}

func (b *Backend) Listen(_ context.Context, name string) (transport.Listener, error) {
    path := b.Path(name)
    if err := removeStale(path); err != nil { return nil, err }
    l, err := net.Listen("unix", path)
    if err != nil { return nil, err }
    return transport.WrapListener(l), nil
}

func (b *Backend) Dial(ctx context.Context, name string) (net.Conn, error) {
    var d net.Dialer
    return d.DialContext(ctx, "unix", b.Path(name))
}

// removeStale deletes a socket file left behind by a dead process. A socket
// that still accepts connections is reported as in use.
func removeStale(path string) error {
    fi, err := os.Lstat(path)
    if errors.Is(err, os.ErrNotExist) { return nil }
    if err != nil { return err }
    if fi.Mode()&os.ModeSocket == 0 {
        return fmt.Errorf("unixpipe: %s exists and is not a socket", path)
    }
    c, err := net.DialTimeout("unix", path, 100*time.Millisecond)
    if err == nil {
        _ = c.Close()
        return fmt.Errorf("unixpipe: %s is in use", path)
    }
    return os.Remove(path)
}
