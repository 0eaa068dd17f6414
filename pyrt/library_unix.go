//go:build !windows

package pyrt

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// SystemLoader loads runtime images through the platform dynamic loader.
// Symbols are made globally visible and the image's own references are bound lazily.
type SystemLoader struct{}

func (SystemLoader) Open(path string) (uintptr, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_GLOBAL|purego.RTLD_LAZY)
	if err != nil {
		return 0, err
	}
	if handle == 0 {
		return 0, fmt.Errorf("dlopen returned a nil handle for %s", path)
	}
	return handle, nil
}

func (SystemLoader) Symbol(handle uintptr, name string) (uintptr, error) {
	return purego.Dlsym(handle, name)
}

func (SystemLoader) Close(handle uintptr) error {
	if handle == 0 {
		return nil
	}
	return purego.Dlclose(handle)
}
