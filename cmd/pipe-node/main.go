package main

import (
    "os"
    "strings"

    "github.com/spf13/cobra"

    "pipeipc/pkg/config"
)

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
    configPath string
    name       string
    backend    string
    cfg        *config.Config
}

func newRootCmd() *cobra.Command {
    ro := &rootOptions{}
    cmd := &cobra.Command{
        Use:           "pipe-node",
        Short:         "Serve or talk to a message pipe",
        SilenceUsage:  true,
        PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
            cfg, err := config.Load(ro.configPath)
            if err != nil { return err }
            if n := strings.TrimSpace(ro.name); n != "" { cfg.Pipe.Name = n }
            if b := strings.TrimSpace(ro.backend); b != "" { cfg.Pipe.Backend = strings.ToLower(b) }
            ro.cfg = cfg
            return nil
        },
    }
    f := cmd.PersistentFlags()
    f.StringVar(&ro.configPath, "config", "", "Path to YAML config file")
    f.StringVar(&ro.name, "name", "", "Pipe name (overrides pipe.name)")
    f.StringVar(&ro.backend, "backend", "", "Backend: winpipe, unix or mem (overrides pipe.backend)")

    cmd.AddCommand(newServeCmd(ro), newSendCmd(ro))
    return cmd
}

func main() {
    if err := newRootCmd().Execute(); err != nil {
        os.Exit(1)
    }
}
