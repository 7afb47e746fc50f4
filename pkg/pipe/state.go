package pipe

import "fmt"

// State is the lifecycle phase of a Pipe.
//
//  Created -> Listening -> Connected -> Disconnected -> Closed
//                 \            \
//                  +-> Failed <-+   (any state) -> Closed
type State int32

const (
    StateCreated State = iota
    StateListening
    StateConnected
    StateDisconnected
    StateClosed
    StateFailed
)

func (s State) String() string {
    switch s {
    case StateCreated:
        return "created"
    case StateListening:
        return "listening"
    case StateConnected:
        return "connected"
    case StateDisconnected:
        return "disconnected"
    case StateClosed:
        return "closed"
    case StateFailed:
        return "failed"
    default:
        return fmt.Sprintf("state(%d)", int32(s))
    }
}

// acceptsSend reports whether Send may queue messages in state s. Messages
// queued before the peer attaches are flushed once it does.
func (s State) acceptsSend() bool {
    return s == StateCreated || s == StateListening || s == StateConnected
}

// Terminal reports whether no further I/O can happen in state s.
func (s State) Terminal() bool {
    return s == StateDisconnected || s == StateClosed || s == StateFailed
}
