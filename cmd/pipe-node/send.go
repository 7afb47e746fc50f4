package main

import (
    "bufio"
    "context"
    "fmt"
    "io"
    "time"

    "github.com/spf13/cobra"
    "go.uber.org/fx"

    "pipeipc/pkg/config"
    "pipeipc/pkg/event"
    "pipeipc/pkg/pipe"
)

type sendOptions struct {
    timeout time.Duration
    replies bool
}

func newSendCmd(ro *rootOptions) *cobra.Command {
    so := &sendOptions{}
    cmd := &cobra.Command{
        Use:   "send [message...]",
        Short: "Connect to the pipe and send messages (stdin lines when none are given)",
        RunE: func(cmd *cobra.Command, args []string) error {
            var p *pipe.Pipe
            app := fx.New(
                commonModule(ro.cfg),
                fx.Supply(so),
                fx.Provide(newClient),
                fx.Populate(&p),
            )
            if err := app.Err(); err != nil { return err }
            startCtx, cancel := context.WithTimeout(context.Background(), so.timeout)
            defer cancel()
            if err := app.Start(startCtx); err != nil { return err }

            runErr := sendAll(cmd.Context(), p, so, args, cmd.InOrStdin(), cmd.OutOrStdout())

            stopCtx, cancelStop := context.WithTimeout(context.Background(), so.timeout)
            defer cancelStop()
            if err := app.Stop(stopCtx); err != nil && runErr == nil { runErr = err }
            return runErr
        },
    }
    cmd.Flags().DurationVar(&so.timeout, "timeout", 5*time.Second, "Dial and reply timeout")
    cmd.Flags().BoolVar(&so.replies, "replies", false, "Wait for and print one reply per message")
    return cmd
}

func newClient(lc fx.Lifecycle, cfg *config.Config, opts pipe.Options, so *sendOptions) (*pipe.Pipe, error) {
    ctx, cancel := context.WithTimeout(context.Background(), so.timeout)
    defer cancel()
    p, err := pipe.Dial(ctx, cfg.Pipe.Name, opts)
    if err != nil { return nil, err }
    closeHook(lc, p)
    return p, nil
}

// sendAll sends args, or each line of in when args is empty, printing
// replies to out when requested. It returns once every message is flushed.
func sendAll(ctx context.Context, p *pipe.Pipe, so *sendOptions, args []string, in io.Reader, out io.Writer) error {
    written := make(chan struct{}, 1)
    id, err := p.On(event.Write, func([]byte) {
        select {
        case written <- struct{}{}:
        default:
        }
    })
    if err != nil { return err }
    defer p.RemoveListener(event.Write, id)
    sent := 0
    if err := sendEach(ctx, p, so, args, in, out, &sent); err != nil { return err }
    return awaitFlush(ctx, p, written, sent, so.timeout)
}

func sendEach(ctx context.Context, p *pipe.Pipe, so *sendOptions, args []string, in io.Reader, out io.Writer, sent *int) error {
    one := func(msg string) error {
        if msg == "" { return nil }
        if err := p.Send([]byte(msg)); err != nil { return err }
        *sent++
        if !so.replies { return nil }
        rctx, cancel := context.WithTimeout(ctx, so.timeout)
        defer cancel()
        m, err := p.Receive(rctx)
        if err != nil { return fmt.Errorf("await reply: %w", err) }
        _, err = fmt.Fprintln(out, string(m))
        return err
    }
    if len(args) > 0 {
        for _, a := range args {
            if err := one(a); err != nil { return err }
        }
        return nil
    }
    sc := bufio.NewScanner(in)
    sc.Buffer(make([]byte, 0, 64<<10), int(p.MaxMessageSize()))
    for sc.Scan() {
        if err := one(sc.Text()); err != nil { return err }
    }
    return sc.Err()
}

// awaitFlush waits until the write loop has drained the outbound queue.
func awaitFlush(ctx context.Context, p *pipe.Pipe, written <-chan struct{}, sent int, timeout time.Duration) error {
    if sent == 0 { return nil }
    ctx, cancel := context.WithTimeout(ctx, timeout)
    defer cancel()
    for p.Pending() > 0 {
        select {
        case <-written:
        case <-p.Done():
            if err := p.Err(); err != nil { return err }
            return fmt.Errorf("pipe stopped with %d messages unsent", p.Pending())
        case <-ctx.Done():
            return fmt.Errorf("flush: %w", ctx.Err())
        }
    }
    return nil
}
