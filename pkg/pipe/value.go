package pipe

import (
    "fmt"

    "pipeipc/pkg/protocol/codec"
)

// SendValue marshals v with c and queues the result like Send.
func (p *Pipe) SendValue(c codec.Codec, v any) error {
    b, err := c.Marshal(v)
    if err != nil { return fmt.Errorf("pipe: encode %s: %w", c.Name(), err) }
    return p.Send(b)
}

// DecodeValue unmarshals a received message into v.
func DecodeValue(c codec.Codec, m Message, v any) error {
    if err := c.Unmarshal(m, v); err != nil {
        return fmt.Errorf("pipe: decode %s: %w", c.Name(), err)
    }
    return nil
}
