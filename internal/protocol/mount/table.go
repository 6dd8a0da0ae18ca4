package mount

import "sync"

// Table records the handles issued by successful MNT calls.
//
// It is shared between the Mount and NFS handlers: minimal clients omit
// the file handle on GETATTR/READDIR against the mount root, and the NFS
// handler substitutes the first recorded root handle for them.
//
// Entries are never removed; UMNT is a bare acknowledgment. Access is
// serialized because MNT calls can arrive concurrently over both
// transports, though contention is negligible (mounts are rare relative
// to reads).
type Table struct {
	mu      sync.Mutex
	order   []string
	handles map[string][]byte
}

func NewTable() *Table {
	return &Table{handles: make(map[string][]byte)}
}

// Add records the handle issued for a mounted path, keeping first-mount
// order for the First fallback.
func (t *Table) Add(path string, fh []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.handles[path]; !ok {
		t.order = append(t.order, path)
	}
	t.handles[path] = fh
}

// First returns the handle of the earliest mounted path.
func (t *Table) First() ([]byte, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.order) == 0 {
		return nil, false
	}
	return t.handles[t.order[0]], true
}

// Len returns the number of recorded mounts.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.order)
}
