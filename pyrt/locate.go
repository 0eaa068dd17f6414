package pyrt

import (
	"iter"
	"path/filepath"
	"strings"
)

const (
	// LibraryFileName is the name of the runtime image inside a framework directory.
	LibraryFileName = "Python"

	versionsDir    = "Versions"
	versionsMarker = versionsDir + "/"
)

var (
	defaultSearchRoots = []string{
		"/Library/Frameworks/Python.framework",
		"/System/Library/Frameworks/Python.framework",
	}

	// Newer acceptable lines come first; the first accepted candidate wins.
	qualifierPriority = []string{"2.7", "2.6"}
)

// DefaultSearchRoots returns the framework directories searched when no explicit
// framework directory is configured, in search order.
func DefaultSearchRoots() []string {
	return append([]string(nil), defaultSearchRoots...)
}

// QualifierPriority returns the version qualifiers tried under an unversioned
// framework directory, in search order.
func QualifierPriority() []string {
	return append([]string(nil), qualifierPriority...)
}

// Candidate is one framework location to probe for the runtime library.
type Candidate struct {
	// Dir is the framework directory, e.g. /Library/Frameworks/Python.framework.
	Dir string
	// Qualifier selects Versions/<Qualifier> under Dir. Empty means Dir already
	// resolves to a single versioned install.
	Qualifier string
}

// LibraryPath returns the full path of the runtime image for c.
func (c Candidate) LibraryPath() string {
	if c.Qualifier == "" {
		return filepath.Join(c.Dir, LibraryFileName)
	}
	return filepath.Join(c.Dir, versionsDir, c.Qualifier, LibraryFileName)
}

func (c Candidate) String() string {
	return c.LibraryPath()
}

// Locate yields the candidates to probe, in priority order. A non-empty
// frameworkDir replaces the default search roots entirely.
func Locate(frameworkDir string) iter.Seq[Candidate] {
	if frameworkDir != "" {
		return locateIn([]string{frameworkDir})
	}
	return locateIn(defaultSearchRoots)
}

func locateIn(roots []string) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for _, root := range roots {
			if isVersionedDir(root) {
				if !yield(Candidate{Dir: root}) {
					return
				}
				continue
			}
			for _, qualifier := range qualifierPriority {
				if !yield(Candidate{Dir: root, Qualifier: qualifier}) {
					return
				}
			}
		}
	}
}

// isVersionedDir reports whether dir already points inside a Versions/<qualifier> subtree.
func isVersionedDir(dir string) bool {
	return strings.Contains(filepath.ToSlash(dir), versionsMarker)
}
