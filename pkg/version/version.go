package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a MAJOR.MINOR.PATCH triple, each component held in one
// byte, matching the 24-bit packed representation.
type Version struct {
	Major, Minor, Patch uint8
}

// Current is this build's version.
var Current = Version{Major: 1, Minor: 0, Patch: 3}

// Parse reads a "MAJOR.MINOR.PATCH" string.
func Parse(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("version: %q is not MAJOR.MINOR.PATCH", s)
	}

	vals := make([]uint8, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 {
			return Version{}, fmt.Errorf("version: invalid component %q in %q", p, s)
		}
		vals[i] = uint8(n)
	}

	return Version{Major: vals[0], Minor: vals[1], Patch: vals[2]}, nil
}

// String renders the dotted form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Packed returns the version as a 24-bit integer, MAJOR in the high
// byte, matching getFirmwareVersionInt's (major<<16)|(minor<<8)|patch.
func (v Version) Packed() uint32 {
	return uint32(v.Major)<<16 | uint32(v.Minor)<<8 | uint32(v.Patch)
}

// Newer reports whether v is strictly greater than other.
func (v Version) Newer(other Version) bool {
	return v.Packed() > other.Packed()
}
