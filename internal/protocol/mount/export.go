package mount

import (
	"github.com/marmos91/nfs2d/internal/protocol/xdr"
)

// export answers EXPORT with the export list as an XDR linked list: each
// node is a presence flag of 1, the path, and an empty groups sub-list;
// a final presence flag of 0 terminates the list. An empty table encodes
// as the single terminating flag.
func (h *Handler) export(_ *xdr.Reader, _ string) ([]byte, string) {
	w := xdr.NewWriter()

	for _, ex := range h.exports.List() {
		w.PutUint32(1) // entry follows
		w.PutString(ex.Path)
		w.PutUint32(0) // empty groups list
	}
	w.PutUint32(0) // end of export list

	return w.Bytes(), "ok"
}
