// Package conv provides narrowing integer conversions that panic on
// overflow instead of truncating silently. The compiler uses it at the
// two places it narrows an int-sized count into the uint32 that StateID
// and State.GroupIndex are built from: the state arena's running index
// (builder.alloc) and a parsed capture/backreference group number
// (compileNode's OpBackref and capturing-group cases).
package conv

import "math"

// IntToUint32 converts n to uint32, panicking if n is negative or
// exceeds uint32's range.
func IntToUint32(n int) uint32 {
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("relite/internal/conv: int value out of uint32 range")
	}
	return uint32(n)
}
