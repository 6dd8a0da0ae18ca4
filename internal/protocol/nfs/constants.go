package nfs

// Version is the only NFS protocol version served. Calls for other
// versions get a PROG_MISMATCH reply so clients can renegotiate.
const Version = 2

// NFS v2 procedure numbers (RFC 1094 section 2.2).
const (
	ProcNull       = 0
	ProcGetAttr    = 1
	ProcSetAttr    = 2
	ProcRoot       = 3
	ProcLookup     = 4
	ProcReadLink   = 5
	ProcRead       = 6
	ProcWriteCache = 7
	ProcWrite      = 8
	ProcCreate     = 9
	ProcRemove     = 10
	ProcRename     = 11
	ProcLink       = 12
	ProcSymlink    = 13
	ProcMkdir      = 14
	ProcRmdir      = 15
	ProcReadDir    = 16
	ProcStatFS     = 17
)

// NFS v2 status codes.
const (
	StatusOK          = 0
	StatusErrPerm     = 1
	StatusErrNoEnt    = 2
	StatusErrIO       = 5
	StatusErrAcces    = 13
	StatusErrExist    = 17
	StatusErrNotDir   = 20
	StatusErrIsDir    = 21
	StatusErrInval    = 22
	StatusErrFBig     = 27
	StatusErrNoSpc    = 28
	StatusErrROFS     = 30
	StatusErrNameTooL = 63
	StatusErrNotEmpty = 66
	StatusErrDQuot    = 69
	StatusErrStale    = 70
)

// NFS v2 file types.
const (
	TypeNone      = 0
	TypeRegular   = 1
	TypeDirectory = 2
	TypeBlock     = 3
	TypeChar      = 4
	TypeLink      = 5
)

// MaxReadSize is the per-call ceiling on READ payloads. Clients may ask
// for more; the reply carries at most this many bytes.
const MaxReadSize = 64 << 10

// DefaultReadDirBytes is the reply budget applied when a READDIR request
// carries a count of zero.
const DefaultReadDirBytes = 4096

// statusLabel names a status code for metrics and logs.
func statusLabel(status uint32) string {
	switch status {
	case StatusOK:
		return "ok"
	case StatusErrNoEnt:
		return "noent"
	case StatusErrIO:
		return "io"
	case StatusErrAcces:
		return "acces"
	case StatusErrNotDir:
		return "notdir"
	case StatusErrIsDir:
		return "isdir"
	case StatusErrInval:
		return "inval"
	case StatusErrStale:
		return "stale"
	default:
		return "error"
	}
}
