package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Semantic is a numeric library version. Revision holds an optional fourth
// component which is accepted on input but never rendered.
type Semantic struct {
	Major    int
	Minor    int
	Patch    int
	Revision int
}

// Parse reads a dotted numeric version with two to four components.
// A leading "v" and any pre-release or build suffix ("-rc.1", "+sha") are
// ignored. Missing minor or patch components default to zero.
func Parse(s string) (Semantic, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(raw, "v")
	if i := strings.IndexAny(raw, "-+"); i >= 0 {
		raw = raw[:i]
	}
	if raw == "" {
		return Semantic{}, fmt.Errorf("version: empty version string")
	}

	parts := strings.Split(raw, ".")
	if len(parts) < 2 || len(parts) > 4 {
		return Semantic{}, fmt.Errorf("version: %q must have between 2 and 4 components", s)
	}

	nums := make([]int, 4)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Semantic{}, fmt.Errorf("version: invalid component %q in %q", p, s)
		}
		nums[i] = n
	}

	return Semantic{Major: nums[0], Minor: nums[1], Patch: nums[2], Revision: nums[3]}, nil
}

// MustParse is like Parse but panics on error. Intended for constants.
func MustParse(s string) Semantic {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String renders the version as major.minor.patch.
func (v Semantic) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// IsZero reports whether every component is zero.
func (v Semantic) IsZero() bool {
	return v == Semantic{}
}
