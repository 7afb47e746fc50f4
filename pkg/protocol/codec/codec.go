// Package codec provides optional payload encodings for pipe messages. The
// pipe itself treats payloads as opaque bytes; these codecs let both ends
// agree on a typed representation.
package codec

import (
    "errors"
    "fmt"
    "strings"
)

// ErrUnknownCodec is returned by Lookup for an unregistered name.
var ErrUnknownCodec = errors.New("codec: unknown codec")

// Codec marshals values to payload bytes and back. Implementations must be
// deterministic so that both pipe ends produce identical bytes.
type Codec interface {
    // Name is the short identifier used in configuration ("json", "cbor", "proto").
    Name() string
    ContentType() string
    Marshal(v any) ([]byte, error)
    Unmarshal(data []byte, v any) error
}

// Registry resolves codecs by short name or content type.
type Registry struct{ byKey map[string]Codec }

// NewRegistry returns a registry preloaded with JSON, CBOR and Protobuf.
func NewRegistry() *Registry {
    r := &Registry{byKey: make(map[string]Codec)}
    r.Register(JSON())
    r.Register(CBOR())
    r.Register(Proto())
    return r
}

// Register adds c under both its name and content type, replacing any
// codec registered under the same keys.
func (r *Registry) Register(c Codec) {
    r.byKey[strings.ToLower(c.Name())] = c
    r.byKey[strings.ToLower(c.ContentType())] = c
}

// Lookup returns the codec for a name or content type.
func (r *Registry) Lookup(key string) (Codec, error) {
    if c := r.byKey[strings.ToLower(strings.TrimSpace(key))]; c != nil {
        return c, nil
    }
    return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, key)
}
