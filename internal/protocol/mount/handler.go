// Package mount implements the Mount protocol (program 100005), the
// companion RPC program clients use to obtain the initial file handle for
// an exported path.
package mount

import (
	"time"

	"github.com/marmos91/nfs2d/internal/export"
	"github.com/marmos91/nfs2d/internal/logger"
	"github.com/marmos91/nfs2d/internal/protocol/rpc"
	"github.com/marmos91/nfs2d/internal/protocol/xdr"
	"github.com/marmos91/nfs2d/pkg/metrics"
)

// Handler answers Mount protocol calls. Its only state is the shared
// export table and the mount table it inserts into.
type Handler struct {
	exports *export.Table
	mounts  *Table
	metrics metrics.RPCMetrics
}

func NewHandler(exports *export.Table, mounts *Table, m metrics.RPCMetrics) *Handler {
	if m == nil {
		m = metrics.NewRPCMetrics()
	}
	return &Handler{exports: exports, mounts: mounts, metrics: m}
}

// procedure binds a Mount procedure number to its implementation. Adding
// a procedure is a table entry, not a new control path.
type procedure struct {
	name string
	fn   func(h *Handler, r *xdr.Reader, peer string) ([]byte, string)
}

var procedures = map[uint32]procedure{
	ProcNull:   {name: "NULL", fn: (*Handler).null},
	ProcMnt:    {name: "MNT", fn: (*Handler).mnt},
	ProcUmnt:   {name: "UMNT", fn: (*Handler).umnt},
	ProcExport: {name: "EXPORT", fn: (*Handler).export},
}

// Handle answers one raw RPC message, returning the complete reply bytes.
// ok is false when the message is not a well-formed call for the Mount
// program; such messages are dropped by the transport.
func (h *Handler) Handle(msg []byte, peer string) ([]byte, bool) {
	call, err := rpc.ReadCall(msg)
	if err != nil {
		logger.Debug("mount: rejecting call from %s: %v", peer, err)
		return nil, false
	}
	if call.Program != rpc.ProgramMount {
		return nil, false
	}

	if call.Version < VersionMin || call.Version > VersionMax {
		logger.Info("mount: unsupported version %d from %s", call.Version, peer)
		h.metrics.RecordRequest("mount", "MISMATCH", "mismatch", 0)
		return rpc.ProgMismatchReply(call.XID, VersionMin, VersionMax), true
	}

	args, err := rpc.ReadData(msg)
	if err != nil {
		logger.Debug("mount: short call from %s: %v", peer, err)
		return nil, false
	}

	start := time.Now()

	proc, known := procedures[call.Procedure]
	if !known {
		// Legacy clients probe procedures and expect an accepted empty
		// reply rather than PROC_UNAVAIL.
		logger.Warn("mount: unimplemented procedure %d from %s", call.Procedure, peer)
		h.metrics.RecordRequest("mount", "UNKNOWN", "ok", time.Since(start))
		return rpc.AcceptReply(call.XID, rpc.AcceptSuccess, nil), true
	}

	logger.Debug("mount: %s xid=0x%x peer=%s", proc.name, call.XID, peer)
	body, status := proc.fn(h, xdr.NewReader(args), peer)
	h.metrics.RecordRequest("mount", proc.name, status, time.Since(start))

	return rpc.AcceptReply(call.XID, rpc.AcceptSuccess, body), true
}

func (h *Handler) null(_ *xdr.Reader, _ string) ([]byte, string) {
	return nil, "ok"
}
