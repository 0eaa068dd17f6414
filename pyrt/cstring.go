package pyrt

import (
	"unsafe"

	"github.com/ebitengine/purego"
)

// CstringToGo converts a null-terminated C string owned by the runtime to a Go string.
// Returns "" if ptr is 0.
func CstringToGo(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}

	// Version banners and error strings are short; the cap only bounds the scan.
	const maxStringLen = 1 << 20
	bytes := unsafe.Slice((*byte)(unsafe.Pointer(ptr)), maxStringLen)

	var length int
	for i := 0; i < maxStringLen; i++ {
		if bytes[i] == 0 {
			length = i
			break
		}
	}

	return string(bytes[:length])
}

// callVersionString invokes a `const char *(*)(void)` entry point and copies its result.
func callVersionString(sym uintptr) string {
	var getVersion func() uintptr
	purego.RegisterFunc(&getVersion, sym)
	return CstringToGo(getVersion())
}
