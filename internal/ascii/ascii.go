// Package ascii provides a fast all-ASCII check used to pick a cheaper
// matching path: a pattern and input that are both pure ASCII never
// need rune-boundary bookkeeping beyond what a byte index already gives.
//
// Grounded on the teacher's simd package: the same SWAR (SIMD Within A
// Register) 8-bytes-at-a-time technique, kept as the teacher's own
// non-amd64 fallback does (no hand-written assembly), but still gated on
// a real golang.org/x/sys/cpu capability read so the decision reflects
// the actual CPU rather than being unconditional.
package ascii

import (
	"encoding/binary"

	"golang.org/x/sys/cpu"
)

// wideLanes reports whether the CPU's vector width makes the 8-byte SWAR
// chunking worthwhile over a variant processing fewer bytes at a time.
// x/sys/cpu.X86 is the zero value (all fields false) on non-x86
// platforms, so this degrades to the conservative chunk size there too.
var wideLanes = cpu.X86.HasAVX2 || cpu.X86.HasSSE2

// IsASCII reports whether every byte in data is < 0x80.
func IsASCII(data []byte) bool {
	n := len(data)
	if n == 0 {
		return true
	}
	if n < 8 || !wideLanes {
		return isASCIIScalar(data)
	}
	return isASCIISWAR(data)
}

func isASCIIScalar(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 {
			return false
		}
	}
	return true
}

// isASCIISWAR checks 8 bytes at a time: ASCII bytes have their high bit
// clear, so ANDing a little-endian uint64 chunk against 0x8080... is
// nonzero exactly when the chunk contains a non-ASCII byte.
func isASCIISWAR(data []byte) bool {
	const hi8 = uint64(0x8080808080808080)

	i := 0
	for i+8 <= len(data) {
		if binary.LittleEndian.Uint64(data[i:])&hi8 != 0 {
			return false
		}
		i += 8
	}
	return isASCIIScalar(data[i:])
}

// FirstNonASCII returns the index of the first byte >= 0x80 in data, or
// -1 if data is all ASCII.
func FirstNonASCII(data []byte) int {
	for i, b := range data {
		if b >= 0x80 {
			return i
		}
	}
	return -1
}
