// Package rpcbind registers program/version/port mappings with the local
// portmapper (program 100000 v2) so that clients discovering services via
// PMAPPROC_GETPORT can find us. Registration is best effort: the server
// keeps serving when no portmapper is running.
package rpcbind

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/marmos91/nfs2d/internal/logger"
	"github.com/marmos91/nfs2d/internal/protocol/rpc"
	"github.com/marmos91/nfs2d/internal/protocol/xdr"
)

const (
	portmapVersion = 2

	procSet   = 1
	procUnset = 2

	// IP protocol numbers, as the portmapper expects them.
	ProtoTCP = 6
	ProtoUDP = 17

	callTimeout = 2 * time.Second
)

// Mapping is one program/version/protocol/port registration.
type Mapping struct {
	Program  uint32
	Version  uint32
	Protocol uint32
	Port     uint32
}

// Client talks to one portmapper endpoint over UDP.
type Client struct {
	addr string
}

func NewClient(addr string) *Client {
	return &Client{addr: addr}
}

// Set registers the mappings. Failures are logged and swallowed; a missing
// portmapper must not prevent startup. The calls run concurrently so a
// dead portmapper costs one reply timeout, not one per mapping.
func (c *Client) Set(mappings []Mapping) {
	var wg sync.WaitGroup
	for _, m := range mappings {
		wg.Add(1)
		go func(m Mapping) {
			defer wg.Done()
			if err := c.call(procSet, m); err != nil {
				logger.Warn("rpcbind: set %d v%d proto=%d port=%d: %v",
					m.Program, m.Version, m.Protocol, m.Port, err)
				return
			}
			logger.Info("rpcbind: registered program %d v%d proto=%d port=%d",
				m.Program, m.Version, m.Protocol, m.Port)
		}(m)
	}
	wg.Wait()
}

// Unset removes the mappings on shutdown, again best effort and concurrent.
func (c *Client) Unset(mappings []Mapping) {
	var wg sync.WaitGroup
	for _, m := range mappings {
		wg.Add(1)
		go func(m Mapping) {
			defer wg.Done()
			if err := c.call(procUnset, m); err != nil {
				logger.Debug("rpcbind: unset %d v%d: %v", m.Program, m.Version, err)
			}
		}(m)
	}
	wg.Wait()
}

func (c *Client) call(proc uint32, m Mapping) error {
	conn, err := net.Dial("udp", c.addr)
	if err != nil {
		return fmt.Errorf("dialing portmapper: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Write(buildCall(proc, m)); err != nil {
		return fmt.Errorf("sending call: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(callTimeout))
	buf := make([]byte, 256)
	if _, err := conn.Read(buf); err != nil {
		return fmt.Errorf("awaiting reply: %w", err)
	}
	return nil
}

// buildCall frames a PMAPPROC_SET or PMAPPROC_UNSET call with AUTH_NULL
// credentials and the mapping as arguments.
func buildCall(proc uint32, m Mapping) []byte {
	w := xdr.NewWriter()
	w.PutUint32(uuid.New().ID()) // xid
	w.PutUint32(rpc.MsgTypeCall)
	w.PutUint32(rpc.RPCVersion)
	w.PutUint32(rpc.ProgramPortmap)
	w.PutUint32(portmapVersion)
	w.PutUint32(proc)
	// cred and verf, both AUTH_NULL
	w.PutUint32(rpc.AuthNull)
	w.PutUint32(0)
	w.PutUint32(rpc.AuthNull)
	w.PutUint32(0)

	w.PutUint32(m.Program)
	w.PutUint32(m.Version)
	w.PutUint32(m.Protocol)
	w.PutUint32(m.Port)
	return w.Bytes()
}
