package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// writeConfig marshals the document to a YAML file and returns its path.
func writeConfig(t *testing.T, doc map[string]any) string {
	t.Helper()
	data, err := yaml.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nfs2d.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, DefaultNFSPort, cfg.Server.NFSPort)
	assert.Equal(t, uint32(DefaultMaxRecordSize), cfg.Server.MaxRecordSize)
	assert.Equal(t, DefaultReadTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, DefaultIdleTimeout, cfg.Server.IdleTimeout)
	assert.Equal(t, DefaultHandleCacheSize, cfg.Server.HandleCacheSize)
	assert.Equal(t, DefaultRpcbindAddr, cfg.Rpcbind.Addr)
	assert.Equal(t, DefaultMetricsListen, cfg.Metrics.Listen)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Empty(t, cfg.Exports)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, map[string]any{
		"logging": map[string]any{"level": "debug"},
		"server": map[string]any{
			"nfs_port":     12049,
			"mount_port":   12048,
			"idle_timeout": "2m",
		},
		"rpcbind": map[string]any{"enabled": true, "addr": "127.0.0.1:1111"},
		"exports": []map[string]any{
			{"path": "/srv/share", "read_only": true},
		},
	})

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.Equal(t, 12049, cfg.Server.NFSPort)
	assert.Equal(t, 12048, cfg.Server.MountPort)
	assert.Equal(t, 2*time.Minute, cfg.Server.IdleTimeout)
	assert.True(t, cfg.Rpcbind.Enabled)
	assert.Equal(t, "127.0.0.1:1111", cfg.Rpcbind.Addr)
	require.Len(t, cfg.Exports, 1)

	// unset fields still take defaults
	assert.Equal(t, DefaultReadTimeout, cfg.Server.ReadTimeout)
	assert.Equal(t, uint32(DefaultMaxRecordSize), cfg.Server.MaxRecordSize)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Run("bad log level", func(t *testing.T) {
		path := writeConfig(t, map[string]any{
			"logging": map[string]any{"level": "verbose"},
		})
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("port out of range", func(t *testing.T) {
		path := writeConfig(t, map[string]any{
			"server": map[string]any{"nfs_port": 70000},
		})
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("duplicate export paths", func(t *testing.T) {
		path := writeConfig(t, map[string]any{
			"exports": []map[string]any{
				{"path": "/srv/share"},
				{"path": "/srv/share"},
			},
		})
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})

	t.Run("unreadable config file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestExportTable(t *testing.T) {
	t.Run("absent anon ids take the anonymous identity", func(t *testing.T) {
		cfg := &Config{Exports: []map[string]any{
			{"path": "/srv/share"},
		}}

		table, err := cfg.ExportTable()
		require.NoError(t, err)
		require.Equal(t, 1, table.Len())

		ex := table.List()[0]
		assert.Equal(t, uint32(AnonymousID), ex.AnonUID)
		assert.Equal(t, uint32(AnonymousID), ex.AnonGID)
	})

	t.Run("explicit zero means root, not the default", func(t *testing.T) {
		cfg := &Config{Exports: []map[string]any{
			{"path": "/srv/share", "anon_uid": 0, "anon_gid": 0},
		}}

		table, err := cfg.ExportTable()
		require.NoError(t, err)

		ex := table.List()[0]
		assert.Equal(t, uint32(0), ex.AnonUID)
		assert.Equal(t, uint32(0), ex.AnonGID)
	})

	t.Run("clients list is carried through", func(t *testing.T) {
		cfg := &Config{Exports: []map[string]any{
			{"path": "/srv/share", "clients": []string{"10.0.0.1"}},
		}}

		table, err := cfg.ExportTable()
		require.NoError(t, err)
		assert.Equal(t, []string{"10.0.0.1"}, table.List()[0].Clients)
	})

	t.Run("relative path is rejected", func(t *testing.T) {
		cfg := &Config{Exports: []map[string]any{
			{"path": "srv/share"},
		}}
		_, err := cfg.ExportTable()
		assert.Error(t, err)
	})

	t.Run("missing path is rejected", func(t *testing.T) {
		cfg := &Config{Exports: []map[string]any{
			{"read_only": true},
		}}
		_, err := cfg.ExportTable()
		assert.Error(t, err)
	})
}
