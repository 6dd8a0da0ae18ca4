package nfs

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/marmos91/nfs2d/internal/protocol/xdr"
)

// readDir enumerates a directory in listing order, paginated by a purely
// positional cookie (the ordinal index of the next entry).
//
// Entries are appended while they fit the caller's byte budget, estimated
// as the fixed per-entry framing plus the padded name. The trailing eof
// boolean tells the client whether a follow-up call with the returned
// cookie is needed. A directory mutated between calls may yield skipped
// or duplicated entries; the cookie carries no generation number.
func (h *Handler) readDir(r *xdr.Reader) []byte {
	fh, ok := h.readHandle(r)
	if !ok {
		return statusBody(StatusErrStale)
	}
	cookie, err := r.Uint32()
	if err != nil {
		return statusBody(StatusErrInval)
	}
	count, err := r.Uint32()
	if err != nil {
		return statusBody(StatusErrInval)
	}

	path, ok := h.resolver.Resolve(fh)
	if !ok {
		return statusBody(StatusErrStale)
	}

	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return statusBody(StatusErrNoEnt)
	}
	if st.Mode&unix.S_IFMT != unix.S_IFDIR {
		return statusBody(StatusErrNotDir)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return statusBody(StatusErrNoEnt)
	}

	// Zero means "pick a server-chosen cap" to avoid giant replies;
	// some vintage clients are sensitive here.
	budget := int(count)
	if budget == 0 {
		budget = DefaultReadDirBytes
	}

	w := xdr.NewWriter()
	w.PutUint32(StatusOK)

	eof := true
	for idx, entry := range entries {
		if uint32(idx) < cookie {
			continue
		}

		name := entry.Name()

		// entry = follows(4) + fileid(4) + string(4+len+pad) + cookie(4);
		// +8 reserves room for the end-of-list and eof words.
		entryBytes := 4 + 4 + (4 + len(name) + xdr.Pad(len(name))) + 4
		if w.Len()+entryBytes+8 > budget {
			eof = false
			break
		}

		w.PutUint32(1) // entry follows
		w.PutUint32(entryFileID(entry))
		w.PutString(name)
		w.PutUint32(uint32(idx) + 1) // cookie for the next call
	}

	w.PutUint32(0) // end of entry list
	if eof {
		w.PutUint32(1)
	} else {
		w.PutUint32(0)
	}
	return w.Bytes()
}

// entryFileID derives the file id for a directory entry, zero when the
// entry vanished between listing and stat.
func entryFileID(entry os.DirEntry) uint32 {
	info, err := entry.Info()
	if err != nil {
		return 0
	}
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return FileID(uint64(st.Ino))
	}
	return 0
}
