// Package handle implements the opaque NFS file handle scheme: a
// fixed-length token encoding the (device, inode) identity of a filesystem
// object, and the reverse mapping from a token back to a path.
//
// Handles are stateless: nothing is persisted, and a handle stays valid for
// as long as the inode it names exists under an export root.
package handle

import (
	"encoding/binary"

	"golang.org/x/sys/unix"
)

// Size is the fixed handle length. NFS v2 file handles are 32 opaque
// bytes; the first 16 carry big-endian device and inode numbers, the rest
// are zero.
const Size = 32

// FromPath derives the handle for a filesystem object.
//
// The path is inspected with lstat so symbolic links are addressed by
// their own identity rather than their target's. If the object has
// vanished the handle encodes device and inode zero; Resolve treats such
// a handle as resolvable-to-nothing.
func FromPath(path string) []byte {
	var dev, ino uint64

	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err == nil {
		dev = uint64(st.Dev)
		ino = uint64(st.Ino)
	}

	fh := make([]byte, Size)
	binary.BigEndian.PutUint64(fh[0:8], dev)
	binary.BigEndian.PutUint64(fh[8:16], ino)
	return fh
}

// Decode extracts the device and inode numbers from a handle. It returns
// ok=false for handles of the wrong length or with a zero inode (the
// vanished-object sentinel written by FromPath).
func Decode(fh []byte) (dev, ino uint64, ok bool) {
	if len(fh) != Size {
		return 0, 0, false
	}
	dev = binary.BigEndian.Uint64(fh[0:8])
	ino = binary.BigEndian.Uint64(fh[8:16])
	if ino == 0 {
		return 0, 0, false
	}
	return dev, ino, true
}
