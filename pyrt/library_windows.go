//go:build windows

package pyrt

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// SystemLoader loads runtime images through LoadLibrary.
type SystemLoader struct{}

func (SystemLoader) Open(path string) (uintptr, error) {
	handle, err := windows.LoadLibrary(path)
	if err != nil || handle == 0 {
		return 0, err
	}
	return uintptr(handle), nil
}

func (SystemLoader) Symbol(handle uintptr, name string) (uintptr, error) {
	proc, err := windows.GetProcAddress(windows.Handle(handle), name)
	if err != nil {
		return 0, err
	}
	return uintptr(unsafe.Pointer(proc)), nil
}

func (SystemLoader) Close(handle uintptr) error {
	if handle == 0 {
		return nil
	}
	return windows.FreeLibrary(windows.Handle(handle))
}
