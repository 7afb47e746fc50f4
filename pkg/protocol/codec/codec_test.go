package codec

import (
    "errors"
    "testing"

    "google.golang.org/protobuf/types/known/structpb"
)

func TestJSONCodec(t *testing.T) {
    c := JSON()
    in := map[string]any{"a": 1, "b": "x"}
    b, err := c.Marshal(in)
    if err != nil { t.Fatalf("marshal: %v", err) }
    var out map[string]any
    if err := c.Unmarshal(b, &out); err != nil { t.Fatalf("unmarshal: %v", err) }
    if out["a"].(float64) != 1 || out["b"].(string) != "x" {
        t.Fatalf("roundtrip mismatch: %#v", out)
    }
}

func TestCBORCodec(t *testing.T) {
    c := CBOR()
    type point struct {
        X int    `cbor:"x"`
        Tag string `cbor:"tag"`
    }
    b, err := c.Marshal(point{X: 42, Tag: "p"})
    if err != nil { t.Fatalf("marshal: %v", err) }
    var out point
    if err := c.Unmarshal(b, &out); err != nil { t.Fatalf("unmarshal: %v", err) }
    if out.X != 42 || out.Tag != "p" { t.Fatalf("roundtrip mismatch: %#v", out) }

    var generic any
    if err := c.Unmarshal(b, &generic); err != nil { t.Fatalf("unmarshal any: %v", err) }
    if _, ok := generic.(map[string]any); !ok { t.Fatalf("generic map type = %T", generic) }
}

func TestProtoCodec(t *testing.T) {
    c := Proto()
    s, err := structpb.NewStruct(map[string]any{"k": "v"})
    if err != nil { t.Fatalf("struct: %v", err) }
    b, err := c.Marshal(s)
    if err != nil { t.Fatalf("marshal: %v", err) }
    var out structpb.Struct
    if err := c.Unmarshal(b, &out); err != nil { t.Fatalf("unmarshal: %v", err) }
    if out.Fields["k"].GetStringValue() != "v" { t.Fatalf("roundtrip mismatch") }

    if _, err := c.Marshal("not a message"); err == nil { t.Fatalf("expected error for non-proto value") }
}

func TestRegistryLookup(t *testing.T) {
    r := NewRegistry()
    for _, key := range []string{"json", "CBOR", "proto", "application/json", "application/x-protobuf"} {
        if _, err := r.Lookup(key); err != nil { t.Fatalf("lookup %q: %v", key, err) }
    }
    if _, err := r.Lookup("yaml"); !errors.Is(err, ErrUnknownCodec) {
        t.Fatalf("lookup yaml = %v", err)
    }
}
