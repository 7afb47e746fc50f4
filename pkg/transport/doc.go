// Package transport defines the backend contract that pipe transports run
// on, plus the backends themselves (winpipe, unixpipe, mem).
//
// Key concepts:
// - Backend: translates a pipe name into a platform address and listens/dials on it
// - Listener: yields the single peer connection; Accept honours context cancellation
// - Conn: a plain net.Conn carrying a reliable, ordered duplex byte stream; the
//   pipe package cancels blocked I/O on it through deadlines
package transport
