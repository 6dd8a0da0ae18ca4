package nfs

import (
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/marmos91/nfs2d/internal/protocol/handle"
	"github.com/marmos91/nfs2d/internal/protocol/xdr"
)

// lookup resolves one name inside a directory and issues a handle plus
// attributes for the child.
//
// The name must be a single directory entry: anything carrying a path
// separator (absolute names included) is refused with ACCES before the
// join, and a ".." result escaping every export root is refused after it.
func (h *Handler) lookup(r *xdr.Reader) []byte {
	dirFH, err := r.Opaque()
	if err != nil {
		return statusBody(StatusErrNoEnt)
	}
	name, err := r.String()
	if err != nil {
		return statusBody(StatusErrNoEnt)
	}
	if name == "" || strings.Contains(name, "/") {
		return statusBody(StatusErrAcces)
	}

	dir, ok := h.resolver.Resolve(dirFH)
	if !ok {
		return statusBody(StatusErrNoEnt)
	}

	child := filepath.Join(dir, name)
	if !h.exports.ContainsPath(child) {
		return statusBody(StatusErrAcces)
	}

	var st unix.Stat_t
	if err := unix.Lstat(child, &st); err != nil {
		return statusBody(StatusErrNoEnt)
	}

	w := xdr.NewWriter()
	w.PutUint32(StatusOK)
	w.PutOpaque(handle.FromPath(child))
	writeFattr(w, &st)
	return w.Bytes()
}
