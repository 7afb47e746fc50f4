package codec

import (
    "reflect"

    cbor "github.com/fxamacker/cbor/v2"
)

type cborCodec struct {
    enc cbor.EncMode
    dec cbor.DecMode
}

var (
    mapStringAny = reflect.TypeOf(map[string]any(nil))
    defaultCBOR  = mustCBOR()
)

func mustCBOR() cborCodec {
    em, err := cbor.CanonicalEncOptions().EncMode()
    if err != nil { panic(err) }
    dm, err := cbor.DecOptions{DefaultMapType: mapStringAny}.DecMode()
    if err != nil { panic(err) }
    return cborCodec{enc: em, dec: dm}
}

// CBOR returns a canonical CBOR codec (RFC 8949). Maps decoded into an
// interface value come back as map[string]any.
func CBOR() Codec { return defaultCBOR }

func (c cborCodec) Name() string { return "cbor" }
func (c cborCodec) ContentType() string { return "application/cbor" }
func (c cborCodec) Marshal(v any) ([]byte, error) { return c.enc.Marshal(v) }
func (c cborCodec) Unmarshal(data []byte, v any) error { return c.dec.Unmarshal(data, v) }
