// Package winpipe implements the Windows named pipe backend on go-winio.
package winpipe

import "strings"

// Prefix is the local named pipe namespace.
const Prefix = `\\.\pipe\`

// Path returns the named pipe path for name. Names already in the pipe
// namespace are returned unchanged.
func Path(name string) string {
    if strings.HasPrefix(name, Prefix) || strings.HasPrefix(name, `//./pipe/`) {
        return name
    }
    return Prefix + strings.TrimLeft(name, `\/`)
}
