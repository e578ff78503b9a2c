package external

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jmylchreest/recolour/pkg/plugin"
)

// Version represents a parsed protocol version.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses a version string in "MAJOR.MINOR.PATCH" format.
func ParseVersion(version string) (Version, error) {
	parts := strings.Split(version, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("invalid version format: %s (expected MAJOR.MINOR.PATCH)", version)
	}

	nums := make([]int, 3)
	for i, name := range []string{"major", "minor", "patch"} {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid %s version: %s", name, parts[i])
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// String returns the string representation of the version.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// less reports whether v sorts before other.
func (v Version) less(other Version) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	if v.Minor != other.Minor {
		return v.Minor < other.Minor
	}
	return v.Patch < other.Patch
}

// IsCompatible checks a plugin's protocol version against this host.
// Rules:
// - Major version must match exactly (breaking changes).
// - The version must not be older than plugin.MinCompatibleVersion.
// - Newer minor and patch versions are accepted.
func IsCompatible(pluginVersion string) (bool, error) {
	pv, err := ParseVersion(pluginVersion)
	if err != nil {
		return false, fmt.Errorf("failed to parse plugin version: %w", err)
	}

	current, err := ParseVersion(plugin.ProtocolVersion)
	if err != nil {
		return false, fmt.Errorf("failed to parse current protocol version: %w", err)
	}
	minimum, err := ParseVersion(plugin.MinCompatibleVersion)
	if err != nil {
		return false, fmt.Errorf("failed to parse minimum compatible version: %w", err)
	}

	if pv.Major != current.Major {
		return false, fmt.Errorf("incompatible major version: plugin is %s, recolour requires %d.x.x", pv, current.Major)
	}
	if pv.less(minimum) {
		return false, fmt.Errorf("plugin version %s is too old, minimum required is %s", pv, minimum)
	}
	return true, nil
}
