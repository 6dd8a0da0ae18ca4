package mount

// Mount protocol version range. Clients commonly probe v3 first even when
// they only issue v1-shaped calls, so the whole range is accepted with v1
// semantics.
const (
	VersionMin = 1
	VersionMax = 3
)

// Mount procedure numbers.
const (
	ProcNull    = 0
	ProcMnt     = 1
	ProcDump    = 2
	ProcUmnt    = 3
	ProcUmntAll = 4
	ProcExport  = 5
)

// Mount status codes. The protocol reuses errno values.
const (
	StatusOK       = 0
	StatusErrNoEnt = 2
	StatusErrAcces = 13
)
