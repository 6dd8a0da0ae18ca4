package rpc

// RPC program numbers served or spoken by this server.
const (
	// ProgramPortmap is the port mapper program number (RFC 1833)
	ProgramPortmap = 100000

	// ProgramNFS is the NFS program number (RFC 1094)
	ProgramNFS = 100003

	// ProgramMount is the Mount protocol program number (RFC 1094 Appendix A)
	ProgramMount = 100005
)

// RPCVersion is the only ONC RPC protocol version this server accepts.
const RPCVersion = 2

// RPC message types.
const (
	MsgTypeCall  = 0
	MsgTypeReply = 1
)

// Reply states.
const (
	MsgAccepted = 0
	MsgDenied   = 1
)

// Accept status values carried in accepted replies.
const (
	AcceptSuccess      = 0
	AcceptProgUnavail  = 1
	AcceptProgMismatch = 2
	AcceptProcUnavail  = 3
	AcceptGarbageArgs  = 4
)

// Authentication flavors. Credentials are parsed only to be skipped; the
// server accepts any flavor and treats every request as anonymous.
const (
	AuthNull = 0
	AuthUnix = 1
)
