package mp

import (
	"math/big"
	"unsafe"
)

// Overlaps reports whether x and y share any memory. Empty slices never
// overlap.
func Overlaps(x, y []big.Word) bool {
	if len(x) == 0 || len(y) == 0 {
		return false
	}
	return uintptr(unsafe.Pointer(&x[0])) <= uintptr(unsafe.Pointer(&y[len(y)-1])) &&
		uintptr(unsafe.Pointer(&y[0])) <= uintptr(unsafe.Pointer(&x[len(x)-1]))
}
