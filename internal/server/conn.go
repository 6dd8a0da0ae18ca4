package server

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/marmos91/nfs2d/internal/logger"
)

// Record marking per RFC 5531 section 11: each fragment is preceded by a
// 4-byte header whose high bit marks the last fragment and whose low 31
// bits carry the fragment length.
const lastFragmentFlag = 0x80000000

// serveConn runs the request loop for one TCP connection: read a complete
// record, dispatch it, write the record-marked reply. Framing errors and
// oversized records close the connection; an unclaimed message merely
// drops the record and keeps the connection open.
func (s *Server) serveConn(ctx context.Context, conn net.Conn) {
	peer := conn.RemoteAddr().String()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("server: panic on connection %s: %v", peer, r)
		}
		conn.Close()
		s.metrics.ConnectionClosed()
		logger.Debug("server: connection %s closed", peer)
	}()

	logger.Debug("server: connection from %s", peer)

	for {
		if ctx.Err() != nil {
			return
		}

		if s.cfg.IdleTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.cfg.IdleTimeout))
		}

		msg, err := s.readRecord(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				logger.Debug("server: closing %s: %v", peer, err)
			}
			return
		}

		reply, ok := s.dispatch(msg, peer)
		if !ok {
			logger.Debug("server: dropping unclaimed record from %s", peer)
			continue
		}
		if reply == nil {
			continue
		}

		if s.cfg.WriteTimeout > 0 {
			_ = conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
		}
		if err := writeRecord(conn, reply); err != nil {
			logger.Warn("server: write to %s: %v", peer, err)
			return
		}
	}
}

// readRecord reassembles one complete RPC record from the stream,
// concatenating fragments until one carries the last-fragment flag. The
// reassembled size is bounded by MaxRecordSize.
func (s *Server) readRecord(conn net.Conn) ([]byte, error) {
	var record []byte
	var header [4]byte

	for {
		if _, err := io.ReadFull(conn, header[:]); err != nil {
			return nil, err
		}

		mark := binary.BigEndian.Uint32(header[:])
		last := mark&lastFragmentFlag != 0
		size := int(mark &^ lastFragmentFlag)

		if len(record)+size > s.cfg.MaxRecordSize {
			return nil, fmt.Errorf("record exceeds %d bytes", s.cfg.MaxRecordSize)
		}

		if s.cfg.ReadTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		}

		fragment := make([]byte, size)
		if _, err := io.ReadFull(conn, fragment); err != nil {
			return nil, fmt.Errorf("short fragment: %w", err)
		}
		record = append(record, fragment...)

		if last {
			return record, nil
		}
	}
}

// writeRecord sends the reply as a single record-marked fragment.
func writeRecord(conn net.Conn, reply []byte) error {
	framed := make([]byte, 4+len(reply))
	binary.BigEndian.PutUint32(framed, lastFragmentFlag|uint32(len(reply)))
	copy(framed[4:], reply)
	_, err := conn.Write(framed)
	return err
}
