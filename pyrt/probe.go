package pyrt

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
)

// VersionSymbol is the runtime entry point that reports its version banner.
const VersionSymbol = "Py_GetVersion"

var (
	// ErrVersionRejected is returned when a loaded runtime reports an unacceptable version.
	ErrVersionRejected = errors.New("runtime version rejected")
	// ErrVersionEntryPointMissing is returned when a loaded image does not export VersionSymbol.
	ErrVersionEntryPointMissing = errors.New("version entry point missing")

	errLibraryAbsent = errors.New("runtime library does not exist")
)

// Loader acquires runtime images and resolves symbols from them.
// Handles are opaque; zero is never a valid handle.
type Loader interface {
	Open(path string) (uintptr, error)
	Symbol(handle uintptr, name string) (uintptr, error)
	Close(handle uintptr) error
}

// Library is a runtime image that passed the version check.
type Library struct {
	Candidate     Candidate
	Path          string
	Handle        uintptr
	Version       Version
	VersionString string
}

// Probe tries a single candidate with the configured loader and minimum version.
// On rejection the returned error explains why and no handle is left open.
func Probe(c Candidate, opts ...Option) (*Library, error) {
	cfg, err := resolveConfig(opts...)
	if err != nil {
		return nil, err
	}
	return newProber(cfg).probe(c)
}

// IsAbsent reports whether a probe error means the candidate path does not exist.
func IsAbsent(err error) bool {
	return errors.Is(err, errLibraryAbsent)
}

type prober struct {
	loader      Loader
	minimum     Version
	callVersion func(sym uintptr) string
	logger      *log.Logger
}

func newProber(cfg config) *prober {
	return &prober{
		loader:      cfg.loader,
		minimum:     cfg.minimum,
		callVersion: cfg.callVersion,
		logger:      cfg.logger,
	}
}

func (p *prober) probe(c Candidate) (*Library, error) {
	path := c.LibraryPath()

	// Loading a missing Versions/<q>/Python can silently resolve to an unrelated
	// system install, so the exact path must exist before the loader sees it.
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", errLibraryAbsent, path)
		}
		return nil, fmt.Errorf("failed to stat runtime library %q: %w", path, err)
	}

	handle, err := p.loader.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load runtime library %q: %w", path, err)
	}
	if handle == 0 {
		return nil, fmt.Errorf("failed to load runtime library %q: nil handle", path)
	}

	held := &heldLibrary{loader: p.loader, handle: handle, path: path, logger: p.logger}
	defer held.release()

	sym, err := p.loader.Symbol(handle, VersionSymbol)
	if err != nil || sym == 0 {
		p.logger.Printf("cannot look up %s in %s", VersionSymbol, path)
		return nil, fmt.Errorf("%w: %s in %q", ErrVersionEntryPointMissing, VersionSymbol, path)
	}

	banner := p.callVersion(sym)
	version, err := ParseVersion(banner)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrVersionRejected, path, err)
	}
	if !version.SatisfiesMinimum(p.minimum) {
		return nil, fmt.Errorf("%w: %q reports %s, need %d.x at least %s", ErrVersionRejected, path, version, p.minimum.Major, p.minimum)
	}

	return &Library{
		Candidate:     c,
		Path:          path,
		Handle:        held.commit(),
		Version:       version,
		VersionString: banner,
	}, nil
}

// heldLibrary owns a handle for the duration of a probe. release closes it
// unless commit transferred ownership to the caller first.
type heldLibrary struct {
	loader    Loader
	handle    uintptr
	path      string
	logger    *log.Logger
	committed bool
}

func (h *heldLibrary) commit() uintptr {
	h.committed = true
	return h.handle
}

func (h *heldLibrary) release() {
	if h.committed || h.handle == 0 {
		return
	}
	if err := h.loader.Close(h.handle); err != nil {
		h.logger.Printf("failed to release %s: %v", h.path, err)
	}
	h.handle = 0
}
