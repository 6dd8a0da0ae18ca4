package config

import (
	"strings"
	"time"
)

// Default transport values. The standard NFS port is 2049; mountd
// historically takes an ephemeral port announced through rpcbind.
const (
	DefaultNFSPort         = 2049
	DefaultMaxRecordSize   = 4 << 20 // 4 MiB
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 5 * time.Minute
	DefaultRpcbindAddr     = "127.0.0.1:111"
	DefaultMetricsListen   = ":9090"
	DefaultHandleCacheSize = 1024
)

// ApplyDefaults fills in any unspecified configuration fields. Zero values
// are replaced; explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)

	if cfg.Server.NFSPort == 0 {
		cfg.Server.NFSPort = DefaultNFSPort
	}
	if cfg.Server.MaxRecordSize == 0 {
		cfg.Server.MaxRecordSize = DefaultMaxRecordSize
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.HandleCacheSize == 0 {
		cfg.Server.HandleCacheSize = DefaultHandleCacheSize
	}

	if cfg.Rpcbind.Addr == "" {
		cfg.Rpcbind.Addr = DefaultRpcbindAddr
	}
	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = DefaultMetricsListen
	}
}
