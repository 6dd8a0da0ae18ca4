package nfs

import (
	"golang.org/x/sys/unix"

	"github.com/marmos91/nfs2d/internal/protocol/xdr"
)

// getAttr resolves the handle and returns fresh attributes for the
// object it names.
func (h *Handler) getAttr(r *xdr.Reader) []byte {
	fh, ok := h.readHandle(r)
	if !ok {
		return statusBody(StatusErrStale)
	}

	path, ok := h.resolver.Resolve(fh)
	if !ok {
		return statusBody(StatusErrNoEnt)
	}

	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return statusBody(StatusErrNoEnt)
	}

	w := xdr.NewWriter()
	w.PutUint32(StatusOK)
	writeFattr(w, &st)
	return w.Bytes()
}
