// Package config loads and validates the nfs2d configuration from file,
// environment, and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete nfs2d configuration.
//
// Sources, in order of precedence:
//  1. Environment variables (NFS2D_*)
//  2. Configuration file (YAML or TOML)
//  3. Default values
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Server contains transport and resource settings
	Server ServerConfig `mapstructure:"server"`

	// Rpcbind controls registration with the local portmapper
	Rpcbind RpcbindConfig `mapstructure:"rpcbind"`

	// Metrics controls the Prometheus endpoint
	Metrics MetricsConfig `mapstructure:"metrics"`

	// Exports lists the exported directory trees. Entries are kept as raw
	// maps here and decoded by ExportTable so that absent fields can take
	// per-export defaults.
	Exports []map[string]any `mapstructure:"exports"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`
}

// ServerConfig contains transport settings.
type ServerConfig struct {
	// NFSPort is the port the NFS program listens on (UDP and TCP).
	// 0 binds an ephemeral port, useful when rpcbind announces it.
	NFSPort int `mapstructure:"nfs_port" validate:"min=0,max=65535"`

	// MountPort is the UDP/TCP port for the Mount program.
	MountPort int `mapstructure:"mount_port" validate:"min=0,max=65535"`

	// MaxRecordSize bounds the total reassembled size of a record-marked
	// TCP message. A peer exceeding it has its connection aborted.
	MaxRecordSize uint32 `mapstructure:"max_record_size"`

	// ReadTimeout, WriteTimeout and IdleTimeout guard individual TCP
	// connections. Zero disables the respective deadline.
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"min=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"min=0"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout" validate:"min=0"`

	// HandleCacheSize bounds the file-handle resolver cache.
	HandleCacheSize int `mapstructure:"handle_cache_size" validate:"min=0"`
}

// RpcbindConfig controls portmapper registration.
type RpcbindConfig struct {
	// Enabled announces program/port mappings on startup.
	Enabled bool `mapstructure:"enabled"`

	// Addr is the portmapper's UDP address.
	Addr string `mapstructure:"addr"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// Enabled initializes the metrics registry and serves /metrics.
	Enabled bool `mapstructure:"enabled"`

	// Listen is the HTTP listen address for /metrics.
	Listen string `mapstructure:"listen"`
}

// Load reads the configuration from the given file (empty string skips the
// file and uses environment plus defaults), applies defaults, and
// validates the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("NFS2D")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
