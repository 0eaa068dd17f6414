package pyrt

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Masterminds/semver/v3"
)

// DefaultMinimumVersion is the oldest Python runtime accepted by Initialize.
// Builds may override it with -ldflags "-X github.com/reinteract/pythunk/pyrt.DefaultMinimumVersion=2.7".
var DefaultMinimumVersion = "2.6"

// ErrInvalidVersion is returned when a version string has no readable major.minor prefix.
var ErrInvalidVersion = errors.New("invalid version string")

// Version is a dotted major.minor.micro runtime version.
type Version struct {
	Major int
	Minor int
	Micro int
}

// ParseVersion reads the leading "N.N" or "N.N.N" prefix of s. Anything after the
// last digit run is ignored, so full runtime banners such as
// "2.7.18 (default, Apr 20 2020, 19:34:11)" parse as 2.7.18.
func ParseVersion(s string) (Version, error) {
	var v Version

	major, rest, ok := scanDigits(s)
	if !ok {
		return Version{}, fmt.Errorf("%w: %q has no major component", ErrInvalidVersion, s)
	}
	if rest == "" || rest[0] != '.' {
		return Version{}, fmt.Errorf("%w: %q has no minor component", ErrInvalidVersion, s)
	}

	minor, rest, _ := scanDigits(rest[1:])
	v.Major, v.Minor = major, minor

	if rest != "" && rest[0] == '.' {
		v.Micro, _, _ = scanDigits(rest[1:])
	}

	return v, nil
}

// scanDigits consumes the leading ASCII digit run of s. An empty run reads as 0
// with ok == false; a run too large for an int also reports ok == false.
func scanDigits(s string) (n int, rest string, ok bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, s, false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, s[i:], false
	}
	return n, s[i:], true
}

// SatisfiesMinimum reports whether v is on the same major line as required and
// at least required.minor.micro. Major versions are never compatible with each other.
func (v Version) SatisfiesMinimum(required Version) bool {
	got, want := v.semver(), required.semver()
	if got.Major() != want.Major() {
		return false
	}
	return !got.LessThan(want)
}

func (v Version) semver() *semver.Version {
	return semver.New(clampUint(v.Major), clampUint(v.Minor), clampUint(v.Micro), "", "")
}

func clampUint(n int) uint64 {
	if n < 0 {
		return 0
	}
	return uint64(n)
}

// String formats v as major.minor.micro.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Micro)
}
