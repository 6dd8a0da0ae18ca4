package handle

import (
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sys/unix"

	"github.com/marmos91/nfs2d/internal/logger"
)

// DefaultCacheSize bounds the number of resolved handles kept hot.
const DefaultCacheSize = 1024

type identity struct {
	dev uint64
	ino uint64
}

// Resolver maps handles back to paths by searching the export roots for a
// matching inode.
//
// The walk is O(subtree size), which is the documented scalability limit
// of stateless handles over small exports. An LRU cache keeps recently
// resolved handles O(1); every cache hit is revalidated with an lstat
// before being trusted, so renames and deletions under the export cannot
// serve a stale path. The walk stays the source of truth.
type Resolver struct {
	roots []string
	cache *lru.Cache[identity, string]
}

// NewResolver builds a resolver over the given export roots. cacheSize <= 0
// selects DefaultCacheSize.
func NewResolver(roots []string, cacheSize int) *Resolver {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	// lru.New only fails for a non-positive size
	cache, _ := lru.New[identity, string](cacheSize)
	return &Resolver{roots: roots, cache: cache}
}

// Resolve returns the path currently carrying the identity encoded in fh,
// searching each export root depth-first. It returns ok=false when the
// handle is malformed, encodes the vanished-object sentinel, or no object
// under any root matches.
func (r *Resolver) Resolve(fh []byte) (string, bool) {
	dev, ino, ok := Decode(fh)
	if !ok {
		return "", false
	}

	id := identity{dev: dev, ino: ino}
	if path, ok := r.cache.Get(id); ok {
		if matches(path, dev, ino) {
			return path, true
		}
		r.cache.Remove(id)
	}

	for _, root := range r.roots {
		if path, found := walk(root, dev, ino); found {
			r.cache.Add(id, path)
			return path, true
		}
	}

	logger.Debug("handle: no object with dev=%d ino=%d under %d root(s)", dev, ino, len(r.roots))
	return "", false
}

// matches reports whether the object at path still carries the identity.
// A zero device in the handle skips the device comparison; handles minted
// by this server always carry one, but the permissive form keeps handles
// from single-filesystem exports resolvable.
func matches(path string, dev, ino uint64) bool {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return false
	}
	if uint64(st.Ino) != ino {
		return false
	}
	return dev == 0 || uint64(st.Dev) == dev
}

// walk searches base depth-first for the first entry matching the
// identity. Unreadable entries are skipped rather than failing the whole
// search.
func walk(base string, dev, ino uint64) (string, bool) {
	if matches(base, dev, ino) {
		return base, true
	}

	var st unix.Stat_t
	if err := unix.Lstat(base, &st); err != nil || st.Mode&unix.S_IFMT != unix.S_IFDIR {
		return "", false
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if path, found := walk(filepath.Join(base, entry.Name()), dev, ino); found {
			return path, true
		}
	}
	return "", false
}
