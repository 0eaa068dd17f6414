// Package pyrt finds a Python framework installed on the host, checks its
// version and binds a fixed set of its symbols without cgo.
package pyrt

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNotFound is returned when no candidate holds a loadable runtime of an acceptable version.
	ErrNotFound = errors.New("cannot find the Python runtime")
	// ErrAlreadyInitialized is returned by every Initialize call after one has succeeded.
	ErrAlreadyInitialized = errors.New("python runtime already initialized")
)

var (
	mu          sync.Mutex
	initialized bool
)

// Runtime is the bound Python runtime: the accepted image and its symbol table.
// It lives for the rest of the process and is safe to share between goroutines.
type Runtime struct {
	lib     Library
	symbols *SymbolTable
}

// Initialize locates the Python runtime, checks its version and binds the manifest.
//
// Candidates are probed in order and the first acceptable one wins. If binding
// then fails the accepted image stays loaded: unloading a partially used image is
// not safe, and no other candidate is tried.
//
// Only one call may succeed per process; later calls return ErrAlreadyInitialized.
// A failed call may be retried.
func Initialize(opts ...Option) (*Runtime, error) {
	mu.Lock()
	defer mu.Unlock()

	if initialized {
		return nil, ErrAlreadyInitialized
	}

	cfg, err := resolveConfig(opts...)
	if err != nil {
		return nil, err
	}

	rt, err := initialize(cfg)
	if err != nil {
		return nil, err
	}

	initialized = true
	return rt, nil
}

// IsInitialized returns true once Initialize has succeeded.
func IsInitialized() bool {
	mu.Lock()
	defer mu.Unlock()
	return initialized
}

func initialize(cfg config) (*Runtime, error) {
	p := newProber(cfg)

	var (
		lib      *Library
		searched int
	)
	for c := range cfg.candidates() {
		searched++
		accepted, err := p.probe(c)
		if err != nil {
			if !IsAbsent(err) {
				cfg.logger.Printf("skipping %s: %v", c, err)
			}
			continue
		}
		lib = accepted
		break
	}

	if lib == nil {
		cfg.logger.Printf("cannot find path to Python framework")
		return nil, fmt.Errorf("%w (%d candidates searched)", ErrNotFound, searched)
	}

	table, err := bindSymbols(cfg.loader, lib.Handle, cfg.manifest, cfg.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", lib.Path, err)
	}

	return &Runtime{lib: *lib, symbols: table}, nil
}

// LibraryPath returns the path of the loaded runtime image.
func (r *Runtime) LibraryPath() string {
	return r.lib.Path
}

// Version returns the parsed runtime version.
func (r *Runtime) Version() Version {
	return r.lib.Version
}

// VersionString returns the raw banner reported by the runtime.
func (r *Runtime) VersionString() string {
	return r.lib.VersionString
}

// Handle returns the loader handle of the runtime image.
func (r *Runtime) Handle() uintptr {
	return r.lib.Handle
}

// Candidate returns the search location the runtime was found at.
func (r *Runtime) Candidate() Candidate {
	return r.lib.Candidate
}

// Symbols returns the bound symbol table.
func (r *Runtime) Symbols() *SymbolTable {
	return r.symbols
}
