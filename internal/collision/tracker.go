// Package collision provides a hash-keyed path index that stays correct when
// two object paths hash to the same 64-bit ID.
package collision

import "github.com/acqlab/tdms/internal/hash"

// Index maps TDMS object paths to caller-assigned slots. Lookups go through
// xxHash64 path IDs; entries sharing an ID are chained and verified by string
// comparison, so a hash collision between two paths cannot alias their slots.
type Index struct {
	buckets map[uint64][]entry
	size    int
}

type entry struct {
	path string
	slot int
}

// NewIndex creates an empty path index.
func NewIndex() *Index {
	return &Index{
		buckets: make(map[uint64][]entry),
	}
}

// Insert records path under the given slot. It reports false if the path is
// already present, leaving the existing slot untouched.
func (ix *Index) Insert(path string, slot int) bool {
	id := hash.PathID(path)
	bucket := ix.buckets[id]
	for _, e := range bucket {
		if e.path == path {
			return false
		}
	}

	ix.buckets[id] = append(bucket, entry{path: path, slot: slot})
	ix.size++

	return true
}

// Lookup returns the slot recorded for path.
func (ix *Index) Lookup(path string) (int, bool) {
	for _, e := range ix.buckets[hash.PathID(path)] {
		if e.path == path {
			return e.slot, true
		}
	}

	return 0, false
}

// Len returns the number of distinct paths in the index.
func (ix *Index) Len() int {
	return ix.size
}

// Reset clears the index while keeping allocated buckets for reuse.
func (ix *Index) Reset() {
	for k := range ix.buckets {
		delete(ix.buckets, k)
	}
	ix.size = 0
}
