package main

import (
    "github.com/spf13/cobra"
    "go.uber.org/fx"
    "go.uber.org/zap"

    "pipeipc/pkg/config"
    "pipeipc/pkg/event"
    "pipeipc/pkg/pipe"
)

type serveOptions struct {
    echo bool
}

func newServeCmd(ro *rootOptions) *cobra.Command {
    so := &serveOptions{}
    cmd := &cobra.Command{
        Use:   "serve",
        Short: "Create the pipe, wait for one client and log its messages",
        Args:  cobra.NoArgs,
        RunE: func(*cobra.Command, []string) error {
            app := fx.New(
                commonModule(ro.cfg),
                fx.Supply(so),
                fx.Provide(newServer),
                fx.Invoke(stopWhenDone),
            )
            if err := app.Err(); err != nil { return err }
            app.Run()
            return nil
        },
    }
    cmd.Flags().BoolVar(&so.echo, "echo", false, "Send every received message back to the client")
    return cmd
}

// newServer creates the listening pipe with its handlers registered before
// a client can attach.
func newServer(lc fx.Lifecycle, cfg *config.Config, opts pipe.Options, so *serveOptions, log *zap.Logger) (*pipe.Pipe, error) {
    var p *pipe.Pipe
    ready := make(chan struct{})
    opts.Handlers = map[event.Event]event.Handler{
        event.Connect: func([]byte) { log.Info("client attached", zap.String("pipe", cfg.Pipe.Name)) },
        event.Read: func([]byte) {
            <-ready
            for {
                m, ok := p.TryReceive()
                if !ok { return }
                log.Info("message", zap.Int("bytes", len(m)), zap.ByteString("payload", m))
                if !so.echo { continue }
                if err := p.Send(m); err != nil {
                    log.Warn("echo failed", zap.Error(err))
                }
            }
        },
    }
    p, err := pipe.New(cfg.Pipe.Name, opts)
    close(ready)
    if err != nil { return nil, err }
    closeHook(lc, p)
    return p, nil
}

// stopWhenDone ends the app once the pipe stops, e.g. after the client leaves.
func stopWhenDone(p *pipe.Pipe, sd fx.Shutdowner, log *zap.Logger) {
    go func() {
        <-p.Done()
        log.Info("pipe stopped", zap.Stringer("state", p.State()), zap.Error(p.Err()))
        _ = sd.Shutdown()
    }()
}
