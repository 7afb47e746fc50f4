package pipe

import "errors"

var (
    // ErrConstruction wraps failures to allocate the OS endpoint.
    ErrConstruction = errors.New("pipe: construction failed")
    // ErrProtocolViolation wraps malformed frames received from the peer.
    ErrProtocolViolation = errors.New("pipe: protocol violation")
    // ErrConnectionClosed marks a peer disconnect; it ends the I/O loops
    // normally and moves the pipe to StateDisconnected.
    ErrConnectionClosed = errors.New("pipe: connection closed by peer")
    // ErrIO wraps any other read/write/accept failure.
    ErrIO = errors.New("pipe: i/o failure")

    // ErrNotConnected is returned by Send once the pipe can no longer deliver.
    ErrNotConnected = errors.New("pipe: not connected")
    // ErrPayloadTooLarge is returned by Send above Options.MaxMessageSize.
    ErrPayloadTooLarge = errors.New("pipe: payload too large")
    // ErrEmptyPayload is returned by Send for zero-length messages, which
    // the wire format cannot carry.
    ErrEmptyPayload = errors.New("pipe: empty payload")
    // ErrQueueFull is returned by Send when a bounded outbound queue is full.
    ErrQueueFull = errors.New("pipe: outbound queue full")

    // ErrClosed is returned by Receive after Close.
    ErrClosed = errors.New("pipe: closed")
    // ErrCloseTimeout is returned by Close when workers outlived the grace
    // period and the handle had to be released forcibly.
    ErrCloseTimeout = errors.New("pipe: close grace period exceeded")
)
