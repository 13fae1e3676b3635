package nantag

import "unsafe"

// Pointer-sized and float words must both be 64 bits wide. On any other
// target these constants overflow and the package fails to compile.
const (
	_ = unsafe.Sizeof(uintptr(0)) - 8
	_ = 8 - unsafe.Sizeof(uintptr(0))
	_ = unsafe.Sizeof(float64(0)) - 8
	_ = 8 - unsafe.Sizeof(float64(0))
)
