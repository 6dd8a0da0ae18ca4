package nfs

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/marmos91/nfs2d/internal/protocol/xdr"
)

// readLink returns the target of a symbolic link. Handles naming anything
// other than a symlink get an invalid-argument status.
func (h *Handler) readLink(r *xdr.Reader) []byte {
	fh, err := r.Opaque()
	if err != nil {
		return statusBody(StatusErrNoEnt)
	}

	path, ok := h.resolver.Resolve(fh)
	if !ok {
		return statusBody(StatusErrNoEnt)
	}

	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return statusBody(StatusErrNoEnt)
	}
	if st.Mode&unix.S_IFMT != unix.S_IFLNK {
		return statusBody(StatusErrInval)
	}

	target, err := os.Readlink(path)
	if err != nil {
		return statusBody(StatusErrIO)
	}

	w := xdr.NewWriter()
	w.PutUint32(StatusOK)
	w.PutString(target)
	return w.Bytes()
}
