// Command nfs2d serves read-only NFS version 2 plus the Mount protocol
// over UDP and TCP, with optional rpcbind registration and a Prometheus
// metrics endpoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/marmos91/nfs2d/internal/logger"
	"github.com/marmos91/nfs2d/internal/protocol/handle"
	"github.com/marmos91/nfs2d/internal/protocol/mount"
	"github.com/marmos91/nfs2d/internal/protocol/nfs"
	"github.com/marmos91/nfs2d/internal/protocol/rpc"
	"github.com/marmos91/nfs2d/internal/rpcbind"
	"github.com/marmos91/nfs2d/internal/server"
	"github.com/marmos91/nfs2d/pkg/config"
	"github.com/marmos91/nfs2d/pkg/metrics"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "nfs2d: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger.SetLevel(cfg.Logging.Level)

	exports, err := cfg.ExportTable()
	if err != nil {
		return fmt.Errorf("building export table: %w", err)
	}
	if exports.Len() == 0 {
		return fmt.Errorf("no exports configured")
	}
	for _, e := range exports.List() {
		logger.Info("exporting %s (read-only, anon %d:%d)", e.Path, e.AnonUID, e.AnonGID)
	}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	mounts := mount.NewTable()
	resolver := handle.NewResolver(exports.Roots(), cfg.Server.HandleCacheSize)
	rpcMetrics := metrics.NewRPCMetrics()

	mountHandler := mount.NewHandler(exports, mounts, rpcMetrics)
	nfsHandler := nfs.NewHandler(exports, resolver, mounts, rpcMetrics)

	srv := server.New(server.Config{
		MaxRecordSize: int(cfg.Server.MaxRecordSize),
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
		IdleTimeout:   cfg.Server.IdleTimeout,
	}, rpcMetrics, mountHandler, nfsHandler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	nfsUDP, nfsTCP, err := bindPair(cfg.Server.NFSPort)
	if err != nil {
		return fmt.Errorf("binding NFS port: %w", err)
	}
	mountUDP, mountTCP, err := bindPair(cfg.Server.MountPort)
	if err != nil {
		return fmt.Errorf("binding mount port: %w", err)
	}

	if cfg.Rpcbind.Enabled {
		client := rpcbind.NewClient(cfg.Rpcbind.Addr)
		mappings := portMappings(nfsUDP, nfsTCP, mountUDP, mountTCP)
		client.Set(mappings)
		defer client.Unset(mappings)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ServeUDP(ctx, nfsUDP) })
	g.Go(func() error { return srv.ServeTCP(ctx, nfsTCP) })
	g.Go(func() error { return srv.ServeUDP(ctx, mountUDP) })
	g.Go(func() error { return srv.ServeTCP(ctx, mountTCP) })

	if cfg.Metrics.Enabled {
		g.Go(func() error { return serveMetrics(ctx, cfg.Metrics.Listen) })
	}

	logger.Info("nfs2d ready: nfs on %s, mount on %s", nfsTCP.Addr(), mountTCP.Addr())

	<-ctx.Done()
	logger.Info("shutting down")
	return g.Wait()
}

// bindPair binds a UDP socket and a TCP listener on the same port. Port 0
// first binds TCP ephemerally, then reuses the chosen port for UDP so both
// transports announce one number.
func bindPair(port int) (*net.UDPConn, net.Listener, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, nil, err
	}
	tcpPort := ln.Addr().(*net.TCPAddr).Port

	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: tcpPort})
	if err != nil {
		ln.Close()
		return nil, nil, err
	}
	return conn, ln, nil
}

// portMappings lists every program/version/protocol/port tuple to announce:
// mount versions 1 through 3 (all served with v1 semantics) and NFS v2,
// each over both transports.
func portMappings(nfsUDP *net.UDPConn, nfsTCP net.Listener, mountUDP *net.UDPConn, mountTCP net.Listener) []rpcbind.Mapping {
	nfsUDPPort := uint32(nfsUDP.LocalAddr().(*net.UDPAddr).Port)
	nfsTCPPort := uint32(nfsTCP.Addr().(*net.TCPAddr).Port)
	mountUDPPort := uint32(mountUDP.LocalAddr().(*net.UDPAddr).Port)
	mountTCPPort := uint32(mountTCP.Addr().(*net.TCPAddr).Port)

	var mappings []rpcbind.Mapping
	for v := uint32(mount.VersionMin); v <= mount.VersionMax; v++ {
		mappings = append(mappings,
			rpcbind.Mapping{Program: rpc.ProgramMount, Version: v, Protocol: rpcbind.ProtoUDP, Port: mountUDPPort},
			rpcbind.Mapping{Program: rpc.ProgramMount, Version: v, Protocol: rpcbind.ProtoTCP, Port: mountTCPPort},
		)
	}
	mappings = append(mappings,
		rpcbind.Mapping{Program: rpc.ProgramNFS, Version: nfs.Version, Protocol: rpcbind.ProtoUDP, Port: nfsUDPPort},
		rpcbind.Mapping{Program: rpc.ProgramNFS, Version: nfs.Version, Protocol: rpcbind.ProtoTCP, Port: nfsTCPPort},
	)
	return mappings
}

func serveMetrics(ctx context.Context, listen string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{Addr: listen, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listening on %s", listen)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
