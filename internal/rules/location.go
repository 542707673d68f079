// internal/rules/location.go
package rules

import (
	"strings"

	"github.com/voyagehq/tripcheck/internal/types"
)

// SameLocation reports whether two segments resolve to the same place.
// Each side's primary location follows its variant (flight destination,
// transfer drop-off, otherwise the segment's location). When both sides
// carry coordinates the comparison is exact coordinate equality; otherwise
// it falls back to case-insensitive city equality. Segments with no
// resolvable location are never the same location.
func SameLocation(a, b types.Segment) bool {
	la, ok := a.PrimaryLocation()
	if !ok {
		return false
	}
	lb, ok := b.PrimaryLocation()
	if !ok {
		return false
	}

	if la.Coordinates != nil && lb.Coordinates != nil {
		return la.Coordinates.Latitude == lb.Coordinates.Latitude &&
			la.Coordinates.Longitude == lb.Coordinates.Longitude
	}

	if la.City == "" || lb.City == "" {
		return false
	}
	return strings.EqualFold(la.City, lb.City)
}
