package pipe

import (
    "time"

    "github.com/benbjohnson/clock"
    "go.uber.org/zap"

    "pipeipc/pkg/event"
    "pipeipc/pkg/observability"
    "pipeipc/pkg/protocol/frame"
    "pipeipc/pkg/transport"
    "pipeipc/pkg/transports"
)

// DefaultCloseTimeout bounds how long Close waits for the workers before
// releasing the handle forcibly.
const DefaultCloseTimeout = time.Second

// Options configures a Pipe. The zero value is usable.
type Options struct {
    // Backend provides the OS endpoint; nil selects the platform default.
    Backend transport.Backend
    // MaxMessageSize bounds payloads in both directions; 0 means frame.DefaultMaxSize.
    MaxMessageSize uint32
    // OutboundLimit and InboundLimit cap the queues; 0 means unbounded.
    // A full inbound queue pauses the reader until a message is consumed.
    OutboundLimit int
    InboundLimit  int
    // CloseTimeout is the grace period Close gives the workers.
    CloseTimeout time.Duration
    // Clock measures CloseTimeout; tests inject a mock.
    Clock clock.Clock
    // Logger defaults to zap.L().
    Logger *zap.Logger
    // Metrics may be nil.
    Metrics *observability.Metrics
    // Handlers are registered before any worker starts, so they observe the
    // Connect event even when the peer attaches immediately.
    Handlers map[event.Event]event.Handler
}

func (o Options) withDefaults() Options {
    if o.Backend == nil { o.Backend = transports.Default(transports.Options{}) }
    if o.MaxMessageSize == 0 { o.MaxMessageSize = frame.DefaultMaxSize }
    if o.OutboundLimit < 0 { o.OutboundLimit = 0 }
    if o.InboundLimit < 0 { o.InboundLimit = 0 }
    if o.CloseTimeout <= 0 { o.CloseTimeout = DefaultCloseTimeout }
    if o.Clock == nil { o.Clock = clock.New() }
    if o.Logger == nil { o.Logger = zap.L() }
    return o
}
