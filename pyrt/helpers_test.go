package pyrt

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"testing"
)

// stubImage is a fake runtime image served by stubLoader.
type stubImage struct {
	handle  uintptr
	version string
	symbols map[string]uintptr
}

// stubLoader records every loader call so tests can assert acquire/release pairing.
type stubLoader struct {
	images      map[string]*stubImage
	openErr     error
	closeErr    error
	opens       map[uintptr]int
	closes      map[uintptr]int
	openPaths   []string
	symbolCalls []string
}

func newStubLoader() *stubLoader {
	return &stubLoader{
		images: make(map[string]*stubImage),
		opens:  make(map[uintptr]int),
		closes: make(map[uintptr]int),
	}
}

// add registers an image at path exporting the version entry point and every
// name in exports.
func (l *stubLoader) add(path string, handle uintptr, version string, exports ...string) *stubImage {
	img := &stubImage{handle: handle, version: version, symbols: make(map[string]uintptr)}
	img.symbols[VersionSymbol] = versionAddr(handle)
	for i, name := range exports {
		img.symbols[name] = handle*1000 + uintptr(i) + 10
	}
	l.images[path] = img
	return img
}

func (l *stubLoader) image(handle uintptr) *stubImage {
	for _, img := range l.images {
		if img.handle == handle {
			return img
		}
	}
	return nil
}

func (l *stubLoader) Open(path string) (uintptr, error) {
	l.openPaths = append(l.openPaths, path)
	if l.openErr != nil {
		return 0, l.openErr
	}
	img, ok := l.images[path]
	if !ok {
		return 0, fmt.Errorf("image not registered: %s", path)
	}
	l.opens[img.handle]++
	return img.handle, nil
}

func (l *stubLoader) Symbol(handle uintptr, name string) (uintptr, error) {
	l.symbolCalls = append(l.symbolCalls, name)
	img := l.image(handle)
	if img == nil {
		return 0, fmt.Errorf("unknown handle %d", handle)
	}
	addr, ok := img.symbols[name]
	if !ok {
		return 0, fmt.Errorf("symbol not found: %s", name)
	}
	return addr, nil
}

func (l *stubLoader) Close(handle uintptr) error {
	l.closes[handle]++
	return l.closeErr
}

// versionCaller answers version calls by looking up the image owning sym.
func (l *stubLoader) versionCaller(sym uintptr) string {
	for _, img := range l.images {
		if versionAddr(img.handle) == sym {
			return img.version
		}
	}
	return ""
}

func versionAddr(handle uintptr) uintptr {
	return handle*1000 + 1
}

// writeFakeLibrary creates an empty runtime image file at path.
func writeFakeLibrary(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte("dummy"), 0o644); err != nil {
		t.Fatalf("failed to write fake library: %v", err)
	}
}

// testOptions wires loader into Initialize/Probe with diagnostics captured in logs.
func testOptions(loader *stubLoader, logs *bytes.Buffer) []Option {
	return []Option{
		withLoader(loader),
		withVersionCaller(loader.versionCaller),
		WithLogger(log.New(logs, "", 0)),
	}
}

// clearPyrtEnv keeps host configuration from leaking into tests.
func clearPyrtEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvFrameworkDir, "")
	t.Setenv(EnvMinimumVersion, "")
}

func resetInitState() {
	mu.Lock()
	defer mu.Unlock()
	initialized = false
}

func testLogger(buf *bytes.Buffer) *log.Logger {
	return log.New(buf, "", 0)
}
