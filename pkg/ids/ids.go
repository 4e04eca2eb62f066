// Package ids computes the stable numeric identifiers used to address
// services and methods on the wire. The hash is the 65599 polynomial hash
// shared with the C++ and Python tooling; changing it would break every
// deployed endpoint, so it is frozen.
package ids

import "fmt"

const hashConstant = 65599

// Calculate returns the 32-bit ID for a fully qualified service path or a
// bare method name. The same input always produces the same output, across
// calls and across processes.
func Calculate(name string) uint32 {
	// Coefficients are successive powers of the hash constant, starting at
	// the first power. The length seeds the hash so "" and "\0" differ.
	hash := uint32(len(name))
	coefficient := uint32(hashConstant)

	for _, r := range name {
		hash += coefficient * uint32(r)
		coefficient *= hashConstant
	}

	return hash
}

// Literal renders an ID the way generated code expects it: a lowercase
// 8-hex-digit literal with an 0x prefix.
func Literal(id uint32) string {
	return fmt.Sprintf("0x%08x", id)
}
