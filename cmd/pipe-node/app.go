package main

import (
    "context"
    "errors"
    "net"
    "net/http"
    "time"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/collectors"
    "github.com/prometheus/client_golang/prometheus/promhttp"
    "go.uber.org/fx"
    "go.uber.org/fx/fxevent"
    "go.uber.org/zap"

    "pipeipc/pkg/config"
    "pipeipc/pkg/observability"
    "pipeipc/pkg/pipe"
    "pipeipc/pkg/protocol/frame"
    "pipeipc/pkg/transport"
    "pipeipc/pkg/transports"
)

// commonModule wires the components every subcommand needs.
func commonModule(cfg *config.Config) fx.Option {
    return fx.Options(
        fx.Supply(cfg),
        fx.Provide(newLogger, newMetrics, newBackend, newPipeOptions),
        fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
            fl := &fxevent.ZapLogger{Logger: l.Named("fx")}
            fl.UseLogLevel(zap.DebugLevel)
            return fl
        }),
    )
}

func newLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
    logger, err := observability.SetupLogger(cfg.Log)
    if err != nil { return nil, err }
    logger.Info("pipe-node started", zap.String("app", cfg.AppName))
    logger.Debug("effective configuration", zap.Any("config", cfg))
    lc.Append(fx.StopHook(func() { _ = logger.Sync() }))
    return logger, nil
}

// newMetrics returns nil unless metrics are enabled; the pipe skips nil metrics.
func newMetrics(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*observability.Metrics, error) {
    if !cfg.Metrics.Enable { return nil, nil }
    reg := prometheus.NewRegistry()
    reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
    m, err := observability.NewMetrics(reg, cfg.Metrics.Namespace)
    if err != nil { return nil, err }

    srv := &http.Server{
        Addr:              cfg.Metrics.Listen,
        Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
        ReadHeaderTimeout: 5 * time.Second,
    }
    lc.Append(fx.Hook{
        OnStart: func(context.Context) error {
            ln, err := net.Listen("tcp", srv.Addr)
            if err != nil { return err }
            log.Info("metrics listening", zap.String("addr", ln.Addr().String()))
            go func() {
                if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
                    log.Error("metrics server stopped", zap.Error(err))
                }
            }()
            return nil
        },
        OnStop: func(ctx context.Context) error { return srv.Shutdown(ctx) },
    })
    return m, nil
}

func newBackend(cfg *config.Config) (transport.Backend, error) {
    return transports.NewByKind(transport.ParseKind(cfg.Pipe.Backend), transports.Options{
        Dir:              cfg.Pipe.Dir,
        InputBufferSize:  cfg.Pipe.InputBufferSize,
        OutputBufferSize: cfg.Pipe.OutputBufferSize,
    })
}

func newPipeOptions(cfg *config.Config, b transport.Backend, log *zap.Logger, m *observability.Metrics) pipe.Options {
    limit := uint32(frame.DefaultMaxSize)
    if cfg.Pipe.MaxMessageSize > 0 { limit = uint32(cfg.Pipe.MaxMessageSize) }
    return pipe.Options{
        Backend:        b,
        MaxMessageSize: limit,
        OutboundLimit:  cfg.Pipe.OutboundLimit,
        InboundLimit:   cfg.Pipe.InboundLimit,
        CloseTimeout:   cfg.Pipe.CloseTimeout(),
        Logger:         log,
        Metrics:        m,
    }
}

// closeHook releases p when the app stops.
func closeHook(lc fx.Lifecycle, p *pipe.Pipe) {
    lc.Append(fx.StopHook(func() error {
        err := p.Close()
        if errors.Is(err, pipe.ErrCloseTimeout) {
            zap.L().Warn("pipe close timed out", zap.String("pipe", p.Name()))
            return nil
        }
        return err
    }))
}
