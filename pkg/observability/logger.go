// Package observability contains logging setup and transport metrics.
package observability

import (
    "os"
    "path/filepath"
    "strings"

    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
    "gopkg.in/natefinch/lumberjack.v2"

    "pipeipc/pkg/config"
)

// ParseLevel maps a config level name to a zap level; unknown names map to info.
func ParseLevel(s string) zapcore.Level {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "debug":
        return zap.DebugLevel
    case "warn", "warning":
        return zap.WarnLevel
    case "error":
        return zap.ErrorLevel
    default:
        return zap.InfoLevel
    }
}

// SetupLogger builds a zap.Logger from the provided configuration, sets it as
// the global logger, and redirects the stdlib log package. The caller should
// defer logger.Sync().
func SetupLogger(c config.LogConfig) (*zap.Logger, error) {
    level := zap.NewAtomicLevelAt(ParseLevel(c.Level))

    encCfg := encoderConfig(c.Development)
    var encoder zapcore.Encoder
    if strings.ToLower(c.Format) == "json" {
        encoder = zapcore.NewJSONEncoder(encCfg)
    } else {
        encoder = zapcore.NewConsoleEncoder(encCfg)
    }

    outputs := c.Outputs
    if len(outputs) == 0 { outputs = []string{"stderr"} }
    var cores []zapcore.Core
    for _, out := range outputs {
        ws, err := openSink(out, c.Rotation)
        if err != nil { return nil, err }
        cores = append(cores, zapcore.NewCore(encoder, ws, level))
    }

    opts := []zap.Option{
        zap.AddCaller(),
        zap.AddStacktrace(zap.ErrorLevel),
    }
    if c.Development {
        opts = append(opts, zap.Development())
    }

    logger := zap.New(zapcore.NewTee(cores...), opts...)
    if c.Name != "" { logger = logger.Named(c.Name) }
    zap.ReplaceGlobals(logger)
    _, _ = zap.RedirectStdLogAt(logger, zap.InfoLevel)
    return logger, nil
}

// openSink resolves one output: stdout, stderr, or a file path. File outputs
// rotate through lumberjack when rotation is enabled.
func openSink(out string, r config.RotationConfig) (zapcore.WriteSyncer, error) {
    switch strings.ToLower(out) {
    case "stdout":
        return zapcore.Lock(os.Stdout), nil
    case "stderr":
        return zapcore.Lock(os.Stderr), nil
    }
    if r.Enable {
        filename := out
        if strings.TrimSpace(r.Filename) != "" { filename = r.Filename }
        return zapcore.AddSync(&lumberjack.Logger{
            Filename:   filename,
            MaxSize:    max(r.MaxSizeMB, 10),
            MaxBackups: max(r.MaxBackups, 1),
            MaxAge:     max(r.MaxAgeDays, 7),
            Compress:   r.Compress,
        }), nil
    }
    if dir := filepath.Dir(out); dir != "." && dir != "" {
        _ = os.MkdirAll(dir, 0o755)
    }
    f, err := os.OpenFile(out, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
    if err != nil {
        // fall back to stderr rather than losing logs
        return zapcore.Lock(os.Stderr), nil
    }
    return zapcore.AddSync(f), nil
}

func encoderConfig(dev bool) zapcore.EncoderConfig {
    if dev {
        cfg := zap.NewDevelopmentEncoderConfig()
        cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
        return cfg
    }
    cfg := zap.NewProductionEncoderConfig()
    cfg.EncodeTime = zapcore.ISO8601TimeEncoder
    return cfg
}
