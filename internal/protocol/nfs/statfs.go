package nfs

import (
	"github.com/marmos91/nfs2d/internal/protocol/xdr"
)

// Synthetic filesystem geometry. Vintage clients only use these numbers
// to size their transfers and to render df output; real usage tracking
// is not part of the serving model.
const (
	statTransferSize = 8192
	statBlockSize    = 512
	statTotalBlocks  = 2097152
	statFreeBlocks   = 1048576
	statAvailBlocks  = 1048576
)

// statFS reports fixed filesystem statistics regardless of the handle.
// The handle argument is consumed but never validated; STATFS succeeds
// even against a stale handle.
func (h *Handler) statFS(r *xdr.Reader) []byte {
	_, _ = r.Opaque()

	w := xdr.NewWriter()
	w.PutUint32(StatusOK)
	w.PutUint32(statTransferSize)
	w.PutUint32(statBlockSize)
	w.PutUint32(statTotalBlocks)
	w.PutUint32(statFreeBlocks)
	w.PutUint32(statAvailBlocks)
	return w.Bytes()
}
