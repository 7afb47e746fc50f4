package config

import (
    "fmt"
    "math"
    "strings"
    "time"
)

// DefaultMaxMessageSize matches the frame package default (16 MiB).
const DefaultMaxMessageSize = 1 << 24

// PipeConfig describes the pipe endpoint.
// Example YAML:
// pipe:
//   name: cvClient
//   backend: winpipe        # winpipe | unix | mem; empty picks the platform default
//   dir: /run/annotator     # unix socket directory
//   max_message_size: 16777216
//   input_buffer_size: 4096
//   output_buffer_size: 4096
//   outbound_limit: 0       # 0 = unbounded
//   inbound_limit: 0
//   close_timeout_ms: 1000
type PipeConfig struct {
    Name             string `mapstructure:"name"`
    Backend          string `mapstructure:"backend"`
    Dir              string `mapstructure:"dir"`
    MaxMessageSize   uint64 `mapstructure:"max_message_size"`
    InputBufferSize  int32  `mapstructure:"input_buffer_size"`
    OutputBufferSize int32  `mapstructure:"output_buffer_size"`
    OutboundLimit    int    `mapstructure:"outbound_limit"`
    InboundLimit     int    `mapstructure:"inbound_limit"`
    CloseTimeoutMS   int    `mapstructure:"close_timeout_ms"`
}

// CloseTimeout returns the close grace period as a duration.
func (p PipeConfig) CloseTimeout() time.Duration {
    return time.Duration(p.CloseTimeoutMS) * time.Millisecond
}

func (p *PipeConfig) validate() error {
    p.Name = strings.TrimSpace(p.Name)
    p.Backend = strings.ToLower(strings.TrimSpace(p.Backend))
    if p.Name == "" {
        return fmt.Errorf("invalid pipe.name: empty")
    }
    if p.MaxMessageSize == 0 || p.MaxMessageSize > math.MaxUint32 {
        return fmt.Errorf("invalid pipe.max_message_size: %d (want 1..%d)", p.MaxMessageSize, uint64(math.MaxUint32))
    }
    switch p.Backend {
    case "", "winpipe", "unix", "mem":
    default:
        return fmt.Errorf("invalid pipe.backend: %q", p.Backend)
    }
    if p.OutboundLimit < 0 || p.InboundLimit < 0 {
        return fmt.Errorf("invalid pipe queue limit: outbound=%d inbound=%d", p.OutboundLimit, p.InboundLimit)
    }
    if p.CloseTimeoutMS <= 0 {
        p.CloseTimeoutMS = 1000
    }
    return nil
}
