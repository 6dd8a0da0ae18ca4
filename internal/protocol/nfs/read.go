package nfs

import (
	"errors"
	"io"
	"os"

	"golang.org/x/sys/unix"

	"github.com/marmos91/nfs2d/internal/protocol/xdr"
)

// read returns up to min(count, MaxReadSize) bytes from the given offset.
// A short read at end of file is a success carrying however many bytes
// were available, not an error.
func (h *Handler) read(r *xdr.Reader) []byte {
	fh, err := r.Opaque()
	if err != nil {
		return statusBody(StatusErrNoEnt)
	}
	offset, err := r.Uint32()
	if err != nil {
		return statusBody(StatusErrInval)
	}
	count, err := r.Uint32()
	if err != nil {
		return statusBody(StatusErrInval)
	}
	// trailing totalcount hint: consumed, ignored
	_, _ = r.Uint32()

	path, ok := h.resolver.Resolve(fh)
	if !ok {
		return statusBody(StatusErrNoEnt)
	}

	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return statusBody(StatusErrNoEnt)
	}
	if st.Mode&unix.S_IFMT == unix.S_IFDIR {
		return statusBody(StatusErrIsDir)
	}

	f, err := os.Open(path)
	if err != nil {
		return statusBody(StatusErrAcces)
	}
	defer f.Close()

	if count > MaxReadSize {
		count = MaxReadSize
	}
	data := make([]byte, count)
	n, err := f.ReadAt(data, int64(offset))
	if err != nil && !errors.Is(err, io.EOF) {
		return statusBody(StatusErrIO)
	}

	w := xdr.NewWriter()
	w.PutUint32(StatusOK)
	writeFattr(w, &st)
	w.PutOpaque(data[:n])
	return w.Bytes()
}
