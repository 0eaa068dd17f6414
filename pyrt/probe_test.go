package pyrt

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestProbeAbsentPathNeverLoads(t *testing.T) {
	clearPyrtEnv(t)

	loader := newStubLoader()
	var logs bytes.Buffer
	c := Candidate{Dir: filepath.Join(t.TempDir(), "Python.framework"), Qualifier: "2.7"}
	loader.add(c.LibraryPath(), 1, "2.7.18")

	lib, err := Probe(c, testOptions(loader, &logs)...)
	if lib != nil {
		t.Fatalf("expected no library, got %+v", lib)
	}
	if !IsAbsent(err) {
		t.Fatalf("expected absent error, got %v", err)
	}
	if len(loader.openPaths) != 0 {
		t.Fatalf("loader.Open must not be called for a missing path, got %v", loader.openPaths)
	}
}

func TestProbeMissingVersionEntryPointReleasesOnce(t *testing.T) {
	clearPyrtEnv(t)

	loader := newStubLoader()
	var logs bytes.Buffer
	c := Candidate{Dir: filepath.Join(t.TempDir(), "Python.framework"), Qualifier: "2.7"}
	writeFakeLibrary(t, c.LibraryPath())
	img := loader.add(c.LibraryPath(), 7, "2.7.18")
	delete(img.symbols, VersionSymbol)

	lib, err := Probe(c, testOptions(loader, &logs)...)
	if lib != nil {
		t.Fatalf("expected no library, got %+v", lib)
	}
	if !errors.Is(err, ErrVersionEntryPointMissing) {
		t.Fatalf("expected ErrVersionEntryPointMissing, got %v", err)
	}
	if loader.opens[7] != 1 || loader.closes[7] != 1 {
		t.Fatalf("expected one open and one close, got opens=%d closes=%d", loader.opens[7], loader.closes[7])
	}
	if !strings.Contains(logs.String(), VersionSymbol) {
		t.Fatalf("expected diagnostic naming %s, got %q", VersionSymbol, logs.String())
	}
}

func TestProbeVersionRejections(t *testing.T) {
	tests := []struct {
		name    string
		version string
		minimum string
	}{
		{"minor too old", "2.5.6", "2.6"},
		{"micro too old", "2.6.1", "2.6.2"},
		{"next major", "3.1.0", "2.6"},
		{"unparseable banner", "unknown", "2.6"},
		{"empty banner", "", "2.6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearPyrtEnv(t)

			loader := newStubLoader()
			var logs bytes.Buffer
			c := Candidate{Dir: filepath.Join(t.TempDir(), "Python.framework"), Qualifier: "2.6"}
			writeFakeLibrary(t, c.LibraryPath())
			loader.add(c.LibraryPath(), 3, tt.version)

			opts := append(testOptions(loader, &logs), WithMinimumVersion(tt.minimum))
			lib, err := Probe(c, opts...)
			if lib != nil {
				t.Fatalf("expected rejection, got %+v", lib)
			}
			if !errors.Is(err, ErrVersionRejected) {
				t.Fatalf("expected ErrVersionRejected, got %v", err)
			}
			if loader.closes[3] != 1 {
				t.Fatalf("expected handle to be released once, got %d", loader.closes[3])
			}
		})
	}
}

func TestProbeAcceptTransfersOwnership(t *testing.T) {
	clearPyrtEnv(t)

	loader := newStubLoader()
	var logs bytes.Buffer
	dir := filepath.Join(t.TempDir(), "Python.framework", "Versions", "2.7")
	c := Candidate{Dir: dir}
	writeFakeLibrary(t, c.LibraryPath())
	loader.add(c.LibraryPath(), 9, "2.7.18 (default, Apr 20 2020)")

	lib, err := Probe(c, testOptions(loader, &logs)...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lib.Handle != 9 {
		t.Fatalf("expected handle 9, got %d", lib.Handle)
	}
	if lib.Version != (Version{2, 7, 18}) {
		t.Fatalf("unexpected version %s", lib.Version)
	}
	if lib.VersionString != "2.7.18 (default, Apr 20 2020)" {
		t.Fatalf("unexpected banner %q", lib.VersionString)
	}
	if lib.Path != filepath.Join(dir, "Python") {
		t.Fatalf("unexpected path %q", lib.Path)
	}
	if loader.closes[9] != 0 {
		t.Fatalf("accepted handle must not be released, got %d closes", loader.closes[9])
	}
}

func TestProbeOpenFailureHasNothingToRelease(t *testing.T) {
	clearPyrtEnv(t)

	loader := newStubLoader()
	loader.openErr = errors.New("not a mach-o file")
	var logs bytes.Buffer
	c := Candidate{Dir: filepath.Join(t.TempDir(), "Python.framework"), Qualifier: "2.7"}
	writeFakeLibrary(t, c.LibraryPath())

	lib, err := Probe(c, testOptions(loader, &logs)...)
	if lib != nil || err == nil {
		t.Fatalf("expected load failure, got lib=%+v err=%v", lib, err)
	}
	if !errors.Is(err, loader.openErr) {
		t.Fatalf("expected wrapped loader error, got %v", err)
	}
	if len(loader.closes) != 0 {
		t.Fatalf("no handle was acquired, but Close was called: %v", loader.closes)
	}
}

func TestProbeCloseErrorIsLoggedNotReturned(t *testing.T) {
	clearPyrtEnv(t)

	loader := newStubLoader()
	loader.closeErr = errors.New("dlclose failed")
	var logs bytes.Buffer
	c := Candidate{Dir: filepath.Join(t.TempDir(), "Python.framework"), Qualifier: "2.7"}
	writeFakeLibrary(t, c.LibraryPath())
	loader.add(c.LibraryPath(), 4, "2.4.6")

	_, err := Probe(c, testOptions(loader, &logs)...)
	if !errors.Is(err, ErrVersionRejected) {
		t.Fatalf("expected ErrVersionRejected, got %v", err)
	}
	if errors.Is(err, loader.closeErr) {
		t.Fatalf("close error leaked into probe result: %v", err)
	}
	if !strings.Contains(logs.String(), "dlclose failed") {
		t.Fatalf("expected close failure to be logged, got %q", logs.String())
	}
}

func TestHeldLibraryReleaseIsIdempotent(t *testing.T) {
	loader := newStubLoader()
	var logs bytes.Buffer
	held := &heldLibrary{loader: loader, handle: 5, path: "x"}
	held.logger = testLogger(&logs)

	held.release()
	held.release()
	if loader.closes[5] != 1 {
		t.Fatalf("expected exactly one close, got %d", loader.closes[5])
	}

	committed := &heldLibrary{loader: loader, handle: 6, path: "y", logger: testLogger(&logs)}
	if got := committed.commit(); got != 6 {
		t.Fatalf("commit returned %d", got)
	}
	committed.release()
	if loader.closes[6] != 0 {
		t.Fatalf("committed handle was released")
	}
}
