package semver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Version represents a semantic version
type Version struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease string
	Build      string
}

var semverRegex = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)(?:-([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?(?:\+([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?$`)

// Parse parses a semantic version string
func Parse(version string) (*Version, error) {
	matches := semverRegex.FindStringSubmatch(version)
	if matches == nil {
		return nil, fmt.Errorf("invalid semantic version: %s", version)
	}

	major, _ := strconv.Atoi(matches[1])
	minor, _ := strconv.Atoi(matches[2])
	patch, _ := strconv.Atoi(matches[3])

	return &Version{
		Major:      major,
		Minor:      minor,
		Patch:      patch,
		Prerelease: matches[4],
		Build:      matches[5],
	}, nil
}

// String returns the string representation of the version
func (v *Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	if v.Build != "" {
		s += "+" + v.Build
	}
	return s
}

// Compare compares two versions
// Returns -1 if v < other, 0 if v == other, 1 if v > other
func (v *Version) Compare(other *Version) int {
	if v.Major != other.Major {
		if v.Major < other.Major {
			return -1
		}
		return 1
	}
	if v.Minor != other.Minor {
		if v.Minor < other.Minor {
			return -1
		}
		return 1
	}
	if v.Patch != other.Patch {
		if v.Patch < other.Patch {
			return -1
		}
		return 1
	}

	// Handle prerelease comparison
	if v.Prerelease == "" && other.Prerelease != "" {
		return 1 // No prerelease > prerelease
	}
	if v.Prerelease != "" && other.Prerelease == "" {
		return -1 // Prerelease < no prerelease
	}
	if v.Prerelease != other.Prerelease {
		return strings.Compare(v.Prerelease, other.Prerelease)
	}

	return 0
}

// GreaterThanOrEqual reports whether v >= other
func (v *Version) GreaterThanOrEqual(other *Version) bool {
	return v.Compare(other) >= 0
}

// ClientVersion is a node's web3_clientVersion string split into its parts,
// e.g. "CoreGeth/v1.12.14-stable/linux-amd64/go1.20".
type ClientVersion struct {
	Raw     string
	Name    string
	Version *Version
}

// ParseClientVersion splits a client version string on '/' and picks the
// first segment that parses as a semantic version. A missing version is not
// an error; Version is nil in that case.
func ParseClientVersion(raw string) ClientVersion {
	cv := ClientVersion{Raw: raw}
	parts := strings.Split(strings.TrimSpace(raw), "/")
	if len(parts) == 0 {
		return cv
	}
	cv.Name = parts[0]
	for _, p := range parts[1:] {
		if v, err := Parse(p); err == nil {
			cv.Version = v
			break
		}
	}
	return cv
}

// Family returns the lower-cased client name with any "-ethereum" suffix
// removed ("Parity-Ethereum" -> "parity").
func (c ClientVersion) Family() string {
	name := strings.ToLower(c.Name)
	return strings.TrimSuffix(name, "-ethereum")
}

// AtLeast reports whether the client version is known and >= min.
func (c ClientVersion) AtLeast(min *Version) bool {
	if c.Version == nil || min == nil {
		return false
	}
	return c.Version.GreaterThanOrEqual(min)
}

// MustParse is like Parse but panics on error. Intended for package-level tables.
func MustParse(version string) *Version {
	v, err := Parse(version)
	if err != nil {
		panic(err)
	}
	return v
}
