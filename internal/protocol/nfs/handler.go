// Package nfs implements the NFS version 2 program (100003): attribute
// lookup, name resolution, reads, directory listing, and synthetic
// filesystem statistics over the exported trees.
package nfs

import (
	"time"

	"github.com/marmos91/nfs2d/internal/export"
	"github.com/marmos91/nfs2d/internal/logger"
	"github.com/marmos91/nfs2d/internal/protocol/handle"
	"github.com/marmos91/nfs2d/internal/protocol/mount"
	"github.com/marmos91/nfs2d/internal/protocol/rpc"
	"github.com/marmos91/nfs2d/internal/protocol/xdr"
	"github.com/marmos91/nfs2d/pkg/metrics"
)

// Handler answers NFS v2 calls. All state it touches is shared and
// injected at construction: the immutable export table, the handle
// resolver, and the mount table maintained by the Mount handler.
type Handler struct {
	exports  *export.Table
	resolver *handle.Resolver
	mounts   *mount.Table
	metrics  metrics.RPCMetrics
}

func NewHandler(exports *export.Table, resolver *handle.Resolver, mounts *mount.Table, m metrics.RPCMetrics) *Handler {
	if m == nil {
		m = metrics.NewRPCMetrics()
	}
	return &Handler{exports: exports, resolver: resolver, mounts: mounts, metrics: m}
}

// procedure binds an NFS procedure number to its implementation. Each
// implementation returns the reply body; the first word of the body is
// the NFS status, read back for metrics.
type procedure struct {
	name string
	fn   func(h *Handler, r *xdr.Reader) []byte
}

var procedures = map[uint32]procedure{
	ProcNull:     {name: "NULL", fn: (*Handler).null},
	ProcGetAttr:  {name: "GETATTR", fn: (*Handler).getAttr},
	ProcLookup:   {name: "LOOKUP", fn: (*Handler).lookup},
	ProcReadLink: {name: "READLINK", fn: (*Handler).readLink},
	ProcRead:     {name: "READ", fn: (*Handler).read},
	ProcReadDir:  {name: "READDIR", fn: (*Handler).readDir},
	ProcStatFS:   {name: "STATFS", fn: (*Handler).statFS},
}

// Handle answers one raw RPC message, returning the complete reply bytes.
// ok is false when the message is not a well-formed call for the NFS
// program; such messages are dropped by the transport.
func (h *Handler) Handle(msg []byte, peer string) ([]byte, bool) {
	call, err := rpc.ReadCall(msg)
	if err != nil {
		logger.Debug("nfs: rejecting call from %s: %v", peer, err)
		return nil, false
	}
	if call.Program != rpc.ProgramNFS {
		return nil, false
	}

	// Explicit version rejection instead of a silent drop. Some client
	// operating systems probe v3 first and hang unless they get the
	// mismatch reply telling them to fall back.
	if call.Version != Version {
		logger.Info("nfs: rejecting unsupported version %d from %s", call.Version, peer)
		h.metrics.RecordRequest("nfs", "MISMATCH", "mismatch", 0)
		return rpc.ProgMismatchReply(call.XID, Version, Version), true
	}

	args, err := rpc.ReadData(msg)
	if err != nil {
		logger.Debug("nfs: short call from %s: %v", peer, err)
		return nil, false
	}

	start := time.Now()

	proc, known := procedures[call.Procedure]
	if !known {
		// Legacy clients probe procedures and expect an accepted empty
		// reply rather than PROC_UNAVAIL.
		logger.Warn("nfs: unimplemented procedure %d from %s", call.Procedure, peer)
		h.metrics.RecordRequest("nfs", "UNKNOWN", "ok", time.Since(start))
		return rpc.AcceptReply(call.XID, rpc.AcceptSuccess, nil), true
	}

	logger.Debug("nfs: %s xid=0x%x peer=%s", proc.name, call.XID, peer)
	body := proc.fn(h, xdr.NewReader(args))
	h.metrics.RecordRequest("nfs", proc.name, bodyStatus(body), time.Since(start))

	return rpc.AcceptReply(call.XID, rpc.AcceptSuccess, body), true
}

func (h *Handler) null(_ *xdr.Reader) []byte {
	return nil
}

// readHandle reads the file-handle argument, substituting the first
// mounted root for the empty handle some minimal clients send against
// the mount root. ok is false when no substitute exists.
func (h *Handler) readHandle(r *xdr.Reader) ([]byte, bool) {
	fh, err := r.Opaque()
	if err != nil || len(fh) == 0 {
		if root, found := h.mounts.First(); found {
			return root, true
		}
		return nil, false
	}
	return fh, true
}

// bodyStatus reads the leading status word of a reply body for metrics.
func bodyStatus(body []byte) string {
	if len(body) < 4 {
		return "ok"
	}
	status, err := xdr.NewReader(body).Uint32()
	if err != nil {
		return "ok"
	}
	return statusLabel(status)
}
