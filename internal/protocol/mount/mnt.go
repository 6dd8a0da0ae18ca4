package mount

import (
	"net"

	"github.com/marmos91/nfs2d/internal/logger"
	"github.com/marmos91/nfs2d/internal/protocol/handle"
	"github.com/marmos91/nfs2d/internal/protocol/xdr"
)

// mnt answers MNT: look the requested path up in the export table and, if
// exported, issue the handle for its root.
//
// Reply shape on success: status OK, the opaque file handle, then an
// empty auth-flavor list. On failure only the status is sent.
func (h *Handler) mnt(r *xdr.Reader, peer string) ([]byte, string) {
	path, err := r.String()
	if err != nil {
		path = ""
	}

	w := xdr.NewWriter()

	ex, ok := h.exports.Lookup(path)
	if !ok {
		logger.Info("mount: MNT %q from %s: not exported", path, peer)
		w.PutUint32(StatusErrAcces)
		return w.Bytes(), "acces"
	}
	if !ex.AllowsClient(peerHost(peer)) {
		logger.Info("mount: MNT %q from %s: client not allowed", path, peer)
		w.PutUint32(StatusErrAcces)
		return w.Bytes(), "acces"
	}

	fh := handle.FromPath(ex.Path)
	h.mounts.Add(ex.Path, fh)

	logger.Info("mount: MNT %q from %s", path, peer)

	w.PutUint32(StatusOK)
	w.PutOpaque(fh)
	w.PutUint32(0) // empty auth-flavor list
	return w.Bytes(), "ok"
}

// umnt acknowledges UMNT without touching the mount table; entries are
// never removed.
func (h *Handler) umnt(r *xdr.Reader, peer string) ([]byte, string) {
	path, _ := r.String()
	logger.Info("mount: UMNT %q from %s", path, peer)
	return nil, "ok"
}

// peerHost strips the port from a peer address for client-list matching.
func peerHost(peer string) string {
	host, _, err := net.SplitHostPort(peer)
	if err != nil {
		return peer
	}
	return host
}
