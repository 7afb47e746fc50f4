package observability

import (
    "errors"
    "fmt"

    "github.com/prometheus/client_golang/prometheus"
)

// Metrics holds pipe transport collectors, labelled by pipe name. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
    framesIn       *prometheus.CounterVec
    framesOut      *prometheus.CounterVec
    bytesIn        *prometheus.CounterVec
    bytesOut       *prometheus.CounterVec
    protocolErrors *prometheus.CounterVec
    outboundDepth  *prometheus.GaugeVec
    inboundDepth   *prometheus.GaugeVec
    state          *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them on reg. Collectors
// already registered by an earlier call are reused.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
    if namespace == "" { namespace = "pipeipc" }
    counter := func(name, help string) *prometheus.CounterVec {
        return prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help}, []string{"pipe"})
    }
    gauge := func(name, help string) *prometheus.GaugeVec {
        return prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help}, []string{"pipe"})
    }
    m := &Metrics{
        framesIn:       counter("frames_in_total", "Frames read from the peer."),
        framesOut:      counter("frames_out_total", "Frames written to the peer."),
        bytesIn:        counter("bytes_in_total", "Payload bytes read from the peer."),
        bytesOut:       counter("bytes_out_total", "Payload bytes written to the peer."),
        protocolErrors: counter("protocol_errors_total", "Frames rejected as protocol violations."),
        outboundDepth:  gauge("outbound_queue_depth", "Messages waiting to be written."),
        inboundDepth:   gauge("inbound_queue_depth", "Messages received and not yet consumed."),
        state:          gauge("state", "Lifecycle state (0 created .. 5 failed)."),
    }
    if reg == nil { return m, nil }
    var err error
    if m.framesIn, err = register(reg, m.framesIn); err != nil { return nil, err }
    if m.framesOut, err = register(reg, m.framesOut); err != nil { return nil, err }
    if m.bytesIn, err = register(reg, m.bytesIn); err != nil { return nil, err }
    if m.bytesOut, err = register(reg, m.bytesOut); err != nil { return nil, err }
    if m.protocolErrors, err = register(reg, m.protocolErrors); err != nil { return nil, err }
    if m.outboundDepth, err = register(reg, m.outboundDepth); err != nil { return nil, err }
    if m.inboundDepth, err = register(reg, m.inboundDepth); err != nil { return nil, err }
    if m.state, err = register(reg, m.state); err != nil { return nil, err }
    return m, nil
}

// register adds c to reg, returning the existing collector when an
// identical one is already registered.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
    if err := reg.Register(c); err != nil {
        var are prometheus.AlreadyRegisteredError
        if errors.As(err, &are) {
            if existing, ok := are.ExistingCollector.(C); ok { return existing, nil }
        }
        return c, fmt.Errorf("observability: register metric: %w", err)
    }
    return c, nil
}

func (m *Metrics) FrameIn(pipe string, n int) {
    if m == nil { return }
    m.framesIn.WithLabelValues(pipe).Inc()
    m.bytesIn.WithLabelValues(pipe).Add(float64(n))
}

func (m *Metrics) FrameOut(pipe string, n int) {
    if m == nil { return }
    m.framesOut.WithLabelValues(pipe).Inc()
    m.bytesOut.WithLabelValues(pipe).Add(float64(n))
}

func (m *Metrics) ProtocolError(pipe string) {
    if m == nil { return }
    m.protocolErrors.WithLabelValues(pipe).Inc()
}

func (m *Metrics) QueueDepth(pipe string, outbound, inbound int) {
    if m == nil { return }
    m.outboundDepth.WithLabelValues(pipe).Set(float64(outbound))
    m.inboundDepth.WithLabelValues(pipe).Set(float64(inbound))
}

func (m *Metrics) State(pipe string, s int) {
    if m == nil { return }
    m.state.WithLabelValues(pipe).Set(float64(s))
}
