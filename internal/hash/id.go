package hash

import "github.com/cespare/xxhash/v2"

// PathID computes the xxHash64 of a TDMS object path. Object paths are the
// identity of groups and channels across segments, and the 64-bit ID keeps
// directory lookups off string keys.
func PathID(path string) uint64 {
	return xxhash.Sum64String(path)
}
