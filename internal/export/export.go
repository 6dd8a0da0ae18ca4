// Package export defines the table of exported directory trees and the
// per-export policy attached to each.
package export

import (
	"path/filepath"
	"strings"
)

// Export is one exported root with its policy. Immutable once loaded.
type Export struct {
	// Path is the absolute path of the exported directory.
	Path string

	// ReadOnly rejects any future write procedure against this export.
	// The current procedure set is read-only, so the flag is carried as
	// policy rather than enforced per call.
	ReadOnly bool

	// AnonUID and AnonGID are the identities attributed to anonymous
	// clients.
	AnonUID uint32
	AnonGID uint32

	// Clients restricts which hosts may mount the export. Empty means
	// any client.
	Clients []string
}

// AllowsClient reports whether a client host may mount this export.
func (e *Export) AllowsClient(host string) bool {
	if len(e.Clients) == 0 {
		return true
	}
	for _, c := range e.Clients {
		if c == host {
			return true
		}
	}
	return false
}

// Table is an ordered, immutable list of exports shared by reference
// across all concurrent handler invocations. It is never mutated after
// construction, so no locking is needed.
type Table struct {
	exports []Export
}

func NewTable(exports []Export) *Table {
	cleaned := make([]Export, len(exports))
	copy(cleaned, exports)
	for i := range cleaned {
		cleaned[i].Path = filepath.Clean(cleaned[i].Path)
	}
	return &Table{exports: cleaned}
}

// List returns the exports in configuration order.
func (t *Table) List() []Export {
	return t.exports
}

// Len returns the number of exports.
func (t *Table) Len() int {
	return len(t.exports)
}

// Lookup returns the export whose root equals path.
func (t *Table) Lookup(path string) (*Export, bool) {
	path = filepath.Clean(path)
	for i := range t.exports {
		if t.exports[i].Path == path {
			return &t.exports[i], true
		}
	}
	return nil, false
}

// Roots returns the exported root paths in configuration order.
func (t *Table) Roots() []string {
	roots := make([]string, len(t.exports))
	for i := range t.exports {
		roots[i] = t.exports[i].Path
	}
	return roots
}

// ContainsPath reports whether path is an export root or a descendant of
// one. Used to reject lookups that would traverse outside every export.
func (t *Table) ContainsPath(path string) bool {
	path = filepath.Clean(path)
	for i := range t.exports {
		root := t.exports[i].Path
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
