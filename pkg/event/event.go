// Package event implements the listener registry used by pipe transports.
//
// Event kinds form a closed set (Connect, Read, Write, Data). Listeners are
// identified by per-event tokens that stay valid while other listeners of the
// same event are added or removed.
package event

import (
    "errors"
    "fmt"
    "strings"
)

var (
    // ErrInvalidEvent reports an event outside the recognized set.
    ErrInvalidEvent = errors.New("event: invalid event")
    // ErrInvalidListenerID reports an id that does not name a registered listener.
    ErrInvalidListenerID = errors.New("event: invalid listener id")
    // ErrNilHandler is returned when registering a nil handler.
    ErrNilHandler = errors.New("event: nil handler")
)

// Event names one of the transport notifications.
type Event int

const (
    // Connect fires once when a peer attaches. Payload is empty.
    Connect Event = iota + 1
    // Read fires after one or more messages were pushed to the inbound queue.
    // It carries no payload; consumers dequeue.
    Read
    // Write fires after a frame was fully flushed; payload is the message.
    Write
    // Data is accepted for registration but never emitted by the I/O loops.
    Data
)

// All lists every recognized event in declaration order.
var All = []Event{Connect, Read, Write, Data}

func (e Event) String() string {
    switch e {
    case Connect:
        return "connect"
    case Read:
        return "read"
    case Write:
        return "write"
    case Data:
        return "data"
    default:
        return fmt.Sprintf("event(%d)", int(e))
    }
}

// Valid reports whether e is one of the recognized events.
func (e Event) Valid() bool { return e >= Connect && e <= Data }

// Parse maps an event name ("connect", "read", "write", "data") to its Event.
func Parse(name string) (Event, error) {
    switch strings.ToLower(strings.TrimSpace(name)) {
    case "connect":
        return Connect, nil
    case "read":
        return Read, nil
    case "write":
        return Write, nil
    case "data":
        return Data, nil
    }
    return 0, fmt.Errorf("%w: %q", ErrInvalidEvent, name)
}
