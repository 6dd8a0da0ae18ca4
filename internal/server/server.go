// Package server provides the UDP and TCP transports that carry ONC RPC
// messages to the protocol handlers. Both transports share the handler
// dispatch; framing differs (raw datagrams vs record marking).
package server

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/marmos91/nfs2d/internal/logger"
	"github.com/marmos91/nfs2d/pkg/metrics"
)

// Handler answers one complete RPC message. The returned bool is false
// when the message is not for this handler's program (or is malformed),
// in which case the transport tries the next handler and finally drops
// the message.
type Handler interface {
	Handle(msg []byte, peer string) ([]byte, bool)
}

// Config carries the transport limits and timeouts.
type Config struct {
	// MaxRecordSize bounds the reassembled size of a multi-fragment TCP
	// record. A record exceeding it aborts the connection.
	MaxRecordSize int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// maxDatagramSize is the receive buffer for a single UDP request. NFS v2
// reads are capped well below this, so a larger request is never valid.
const maxDatagramSize = 68 * 1024

// Server dispatches incoming RPC messages to a fixed set of program
// handlers over both transports.
type Server struct {
	cfg      Config
	handlers []Handler
	metrics  metrics.RPCMetrics
}

func New(cfg Config, m metrics.RPCMetrics, handlers ...Handler) *Server {
	if m == nil {
		m = metrics.NewRPCMetrics()
	}
	return &Server{cfg: cfg, handlers: handlers, metrics: m}
}

// dispatch offers the message to each handler in order. nil with ok=false
// means no handler claimed it.
func (s *Server) dispatch(msg []byte, peer string) ([]byte, bool) {
	for _, h := range s.handlers {
		if reply, ok := h.Handle(msg, peer); ok {
			return reply, true
		}
	}
	return nil, false
}

// ServeUDP answers datagrams on conn until ctx is done. Each datagram is
// one RPC call; each reply goes out as one datagram.
func (s *Server) ServeUDP(ctx context.Context, conn *net.UDPConn) error {
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	logger.Info("server: UDP listening on %s", conn.LocalAddr())

	buf := make([]byte, maxDatagramSize)
	for {
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			logger.Error("server: UDP read: %v", err)
			continue
		}

		msg := make([]byte, n)
		copy(msg, buf[:n])

		go func(msg []byte, addr *net.UDPAddr) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("server: panic handling UDP request from %s: %v", addr, r)
				}
			}()

			reply, ok := s.dispatch(msg, addr.String())
			if !ok {
				logger.Debug("server: dropping unclaimed UDP message from %s", addr)
				return
			}
			if reply == nil {
				return
			}
			if _, err := conn.WriteToUDP(reply, addr); err != nil {
				logger.Warn("server: UDP write to %s: %v", addr, err)
			}
		}(msg, addr)
	}
}

// ServeTCP accepts connections on ln until ctx is done, one goroutine
// per connection.
func (s *Server) ServeTCP(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	logger.Info("server: TCP listening on %s", ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			logger.Error("server: accept: %v", err)
			continue
		}

		s.metrics.ConnectionOpened()
		go s.serveConn(ctx, conn)
	}
}
