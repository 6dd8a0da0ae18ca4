package nfs

import (
	"golang.org/x/sys/unix"

	"github.com/marmos91/nfs2d/internal/protocol/xdr"
)

// fileType maps a stat mode to the NFS v2 file type.
func fileType(mode uint32) uint32 {
	switch mode & unix.S_IFMT {
	case unix.S_IFREG:
		return TypeRegular
	case unix.S_IFDIR:
		return TypeDirectory
	case unix.S_IFBLK:
		return TypeBlock
	case unix.S_IFCHR:
		return TypeChar
	case unix.S_IFLNK:
		return TypeLink
	default:
		return TypeNone
	}
}

// writeFattr encodes the NFS v2 fattr tuple from stat results.
//
// Attributes are derived fresh from the stat on every request, never
// cached. The file id is the low 32 bits of the inode: deterministic and
// consistent between GETATTR/LOOKUP attributes and READDIR entries, which
// matters for clients that cache by file id. Timestamp microseconds are
// always zero.
func writeFattr(w *xdr.Writer, st *unix.Stat_t) {
	w.PutUint32(fileType(uint32(st.Mode)))
	w.PutUint32(uint32(st.Mode))
	w.PutUint32(uint32(st.Nlink))
	w.PutUint32(st.Uid)
	w.PutUint32(st.Gid)
	w.PutUint32(uint32(st.Size))
	w.PutUint32(uint32(st.Blksize))
	w.PutUint32(uint32(st.Rdev))
	w.PutUint32(uint32(st.Blocks))
	w.PutUint32(uint32(st.Dev))
	w.PutUint32(FileID(uint64(st.Ino)))
	w.PutUint32(uint32(st.Atim.Sec))
	w.PutUint32(0)
	w.PutUint32(uint32(st.Mtim.Sec))
	w.PutUint32(0)
	w.PutUint32(uint32(st.Ctim.Sec))
	w.PutUint32(0)
}

// FileID derives the 32-bit NFS v2 file id from an inode number.
func FileID(ino uint64) uint32 {
	return uint32(ino)
}

// statusBody builds a reply body that carries only a status code.
func statusBody(status uint32) []byte {
	w := xdr.NewWriter()
	w.PutUint32(status)
	return w.Bytes()
}
