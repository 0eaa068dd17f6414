package pyrt

import (
	"fmt"
	"iter"
	"log"
	"os"
	"strings"
)

const (
	// EnvFrameworkDir names the environment variable holding an explicit framework directory.
	EnvFrameworkDir = "PYTHON_FRAMEWORK_DIR"
	// EnvMinimumVersion names the environment variable overriding DefaultMinimumVersion.
	EnvMinimumVersion = "PYTHUNK_MIN_VERSION"
)

// Option configures Initialize and Probe.
type Option func(*config) error

type config struct {
	frameworkDir string
	minimum      Version
	manifest     Manifest
	loader       Loader
	logger       *log.Logger
	callVersion  func(sym uintptr) string
	searchRoots  []string
}

// WithFrameworkDir searches only dir instead of the default framework roots.
// A dir containing a Versions/ segment is trusted to name exactly one install.
func WithFrameworkDir(dir string) Option {
	return func(cfg *config) error {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			return fmt.Errorf("framework directory cannot be empty")
		}
		cfg.frameworkDir = dir
		return nil
	}
}

// WithMinimumVersion sets the oldest acceptable runtime version (for example: 2.7 or 2.7.3).
func WithMinimumVersion(version string) Option {
	return func(cfg *config) error {
		v, err := ParseVersion(strings.TrimSpace(version))
		if err != nil {
			return fmt.Errorf("invalid minimum version: %w", err)
		}
		cfg.minimum = v
		return nil
	}
}

// WithLogger sends diagnostics to logger instead of stderr.
func WithLogger(logger *log.Logger) Option {
	return func(cfg *config) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithManifest replaces the symbols bound by Initialize.
func WithManifest(manifest Manifest) Option {
	return func(cfg *config) error {
		if err := manifest.Validate(); err != nil {
			return err
		}
		cfg.manifest = manifest
		return nil
	}
}

func withLoader(loader Loader) Option {
	return func(cfg *config) error {
		if loader == nil {
			return fmt.Errorf("loader cannot be nil")
		}
		cfg.loader = loader
		return nil
	}
}

func withVersionCaller(call func(sym uintptr) string) Option {
	return func(cfg *config) error {
		if call == nil {
			return fmt.Errorf("version caller cannot be nil")
		}
		cfg.callVersion = call
		return nil
	}
}

func withSearchRoots(roots ...string) Option {
	return func(cfg *config) error {
		if len(roots) == 0 {
			return fmt.Errorf("search roots cannot be empty")
		}
		cfg.searchRoots = roots
		return nil
	}
}

func resolveConfig(opts ...Option) (config, error) {
	minimum := strings.TrimSpace(os.Getenv(EnvMinimumVersion))
	if minimum == "" {
		minimum = DefaultMinimumVersion
	}
	required, err := ParseVersion(minimum)
	if err != nil {
		return config{}, fmt.Errorf("invalid minimum version %q: %w", minimum, err)
	}

	cfg := config{
		frameworkDir: strings.TrimSpace(os.Getenv(EnvFrameworkDir)),
		minimum:      required,
		manifest:     DefaultManifest(),
		loader:       SystemLoader{},
		logger:       log.New(os.Stderr, "pyrt: ", log.LstdFlags),
		callVersion:  callVersionString,
		searchRoots:  defaultSearchRoots,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return config{}, err
		}
	}

	return cfg, nil
}

// candidates yields the probe order for cfg.
func (cfg config) candidates() iter.Seq[Candidate] {
	if cfg.frameworkDir != "" {
		return locateIn([]string{cfg.frameworkDir})
	}
	return locateIn(cfg.searchRoots)
}
