package rpc

import (
	"github.com/marmos91/nfs2d/internal/protocol/xdr"
)

// AcceptReply builds an MSG_ACCEPTED reply envelope with a null verifier
// and the given accept status, followed by the procedure result body.
//
// The returned bytes carry no transport framing; the stream transport adds
// the record mark, the datagram transport sends them as-is.
func AcceptReply(xid uint32, acceptStat uint32, body []byte) []byte {
	w := xdr.NewWriter()
	w.PutUint32(xid)
	w.PutUint32(MsgTypeReply)
	w.PutUint32(MsgAccepted)
	// verifier: AUTH_NULL, zero length
	w.PutUint32(AuthNull)
	w.PutUint32(0)
	w.PutUint32(acceptStat)
	return append(w.Bytes(), body...)
}

// ProgMismatchReply builds the PROG_MISMATCH reply advertising the version
// range this server speaks for a recognized program. Well-behaved clients
// use it to fall back to a supported version, so it must be sent rather
// than dropped.
func ProgMismatchReply(xid uint32, low, high uint32) []byte {
	w := xdr.NewWriter()
	w.PutUint32(xid)
	w.PutUint32(MsgTypeReply)
	w.PutUint32(MsgAccepted)
	w.PutUint32(AuthNull)
	w.PutUint32(0)
	w.PutUint32(AcceptProgMismatch)
	w.PutUint32(low)
	w.PutUint32(high)
	return w.Bytes()
}
