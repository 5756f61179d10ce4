package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given field name.
//
// Callers that do not already assign unsigned 64-bit field identifiers can
// derive one deterministically from the series name string.
func ID(name string) uint64 {
	return xxhash.Sum64String(name)
}
