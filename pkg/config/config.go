// Package config provides YAML-based configuration loading for pipeipc.
package config

import (
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"

    "github.com/spf13/viper"
)

// Config is the root application configuration.
type Config struct {
    // AppName optional logical name of the process owning the pipe
    AppName string `mapstructure:"app_name"`

    // Log holds logging configuration
    Log LogConfig `mapstructure:"log"`

    // Pipe describes the pipe endpoint and its limits
    Pipe PipeConfig `mapstructure:"pipe"`

    // Metrics controls the prometheus endpoint
    Metrics MetricsConfig `mapstructure:"metrics"`
}

// LogConfig defines logger settings.
type LogConfig struct {
    // Level: debug, info, warn, error
    Level string `mapstructure:"level"`
    // Format: console or json
    Format string `mapstructure:"format"`
    // Outputs: list of outputs: stdout, stderr, or file paths
    Outputs []string `mapstructure:"outputs"`
    // Name is attached to the root logger when set
    Name string `mapstructure:"name"`

    // Rotation controls file rotation when writing to files
    Rotation RotationConfig `mapstructure:"rotation"`
    // Development toggles development-friendly logging options
    Development bool `mapstructure:"development"`
}

// RotationConfig controls log file rotation for file outputs.
type RotationConfig struct {
    Enable     bool   `mapstructure:"enable"`
    Filename   string `mapstructure:"filename"`
    MaxSizeMB  int    `mapstructure:"max_size_mb"`
    MaxBackups int    `mapstructure:"max_backups"`
    MaxAgeDays int    `mapstructure:"max_age_days"`
    Compress   bool   `mapstructure:"compress"`
}

// MetricsConfig enables the prometheus exporter.
type MetricsConfig struct {
    Enable    bool   `mapstructure:"enable"`
    Listen    string `mapstructure:"listen"`
    Namespace string `mapstructure:"namespace"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
    return &Config{
        AppName: "pipe-node",
        Log: LogConfig{
            Level:       "info",
            Format:      "console",
            Outputs:     []string{"stderr"},
            Development: true,
            Rotation: RotationConfig{
                Enable:     false,
                Filename:   "logs/pipeipc.log",
                MaxSizeMB:  50,
                MaxBackups: 3,
                MaxAgeDays: 28,
                Compress:   true,
            },
        },
        Pipe: PipeConfig{
            Name:             "pipeipc",
            Backend:          "",
            MaxMessageSize:   DefaultMaxMessageSize,
            InputBufferSize:  4096,
            OutputBufferSize: 4096,
            CloseTimeoutMS:   1000,
        },
        Metrics: MetricsConfig{Listen: "127.0.0.1:9464", Namespace: "pipeipc"},
    }
}

// Load reads configuration from the provided path (if non-empty),
// otherwise it searches common locations and supports environment overrides.
// Environment variables use the prefix PIPEIPC and `.`/`-` are replaced with `_`.
// Example: PIPEIPC_PIPE_NAME=cvClient
func Load(path string) (*Config, error) {
    cfg := Default()

    v := viper.New()
    v.SetConfigType("yaml")
    v.SetEnvPrefix("PIPEIPC")
    v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
    v.AutomaticEnv()

    // seed defaults for viper so env-only configs work
    v.SetDefault("app_name", cfg.AppName)
    v.SetDefault("log.level", cfg.Log.Level)
    v.SetDefault("log.format", cfg.Log.Format)
    v.SetDefault("log.outputs", cfg.Log.Outputs)
    v.SetDefault("log.name", cfg.Log.Name)
    v.SetDefault("log.development", cfg.Log.Development)
    v.SetDefault("log.rotation.enable", cfg.Log.Rotation.Enable)
    v.SetDefault("log.rotation.filename", cfg.Log.Rotation.Filename)
    v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
    v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
    v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
    v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)
    // Pipe defaults
    v.SetDefault("pipe.name", cfg.Pipe.Name)
    v.SetDefault("pipe.backend", cfg.Pipe.Backend)
    v.SetDefault("pipe.dir", cfg.Pipe.Dir)
    v.SetDefault("pipe.max_message_size", cfg.Pipe.MaxMessageSize)
    v.SetDefault("pipe.input_buffer_size", cfg.Pipe.InputBufferSize)
    v.SetDefault("pipe.output_buffer_size", cfg.Pipe.OutputBufferSize)
    v.SetDefault("pipe.outbound_limit", cfg.Pipe.OutboundLimit)
    v.SetDefault("pipe.inbound_limit", cfg.Pipe.InboundLimit)
    v.SetDefault("pipe.close_timeout_ms", cfg.Pipe.CloseTimeoutMS)
    // Metrics defaults
    v.SetDefault("metrics.enable", cfg.Metrics.Enable)
    v.SetDefault("metrics.listen", cfg.Metrics.Listen)
    v.SetDefault("metrics.namespace", cfg.Metrics.Namespace)

    // Choose config file
    if path == "" {
        // Allow override via env var
        if envPath := os.Getenv("PIPEIPC_CONFIG"); envPath != "" {
            path = envPath
        }
    }

    if path != "" {
        v.SetConfigFile(path)
    } else {
        // Search common locations with base name `pipeipc`
        v.SetConfigName("pipeipc")
        v.AddConfigPath(".")
        v.AddConfigPath("./configs")
        if home, err := os.UserHomeDir(); err == nil {
            v.AddConfigPath(filepath.Join(home, ".pipeipc"))
        }
    }

    // Read config file if present; if not found, continue with defaults/env
    if err := v.ReadInConfig(); err != nil {
        var viperConfigFileNotFound viper.ConfigFileNotFoundError
        if !errors.As(err, &viperConfigFileNotFound) {
            return nil, fmt.Errorf("read config: %w", err)
        }
    }

    if err := v.Unmarshal(cfg); err != nil {
        return nil, fmt.Errorf("decode config: %w", err)
    }

    if err := cfg.validate(); err != nil {
        return nil, err
    }
    return cfg, nil
}

func (c *Config) validate() error {
    lvl := strings.ToLower(strings.TrimSpace(c.Log.Level))
    switch lvl {
    case "debug", "info", "warn", "warning", "error":
        // ok
    default:
        return fmt.Errorf("invalid log.level: %q", c.Log.Level)
    }

    if c.Log.Format == "" {
        c.Log.Format = "console"
    }
    if len(c.Log.Outputs) == 0 {
        c.Log.Outputs = []string{"stderr"}
    }
    return c.Pipe.validate()
}

// MustLoad is a convenience that panics on error.
func MustLoad(path string) *Config {
    cfg, err := Load(path)
    if err != nil {
        panic(err)
    }
    return cfg
}
