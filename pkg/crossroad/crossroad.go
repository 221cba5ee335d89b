// Package crossroad models named intersections: a centre coordinate plus the
// compass directions of the physical branches radiating from it. Branch
// directions classify the bearing a vehicle entered and left with.
package crossroad

import (
	"fmt"
	"math"

	"github.com/tripmatch/tripmatch/pkg/geodesy"
)

// Branch is one arm of a crossroad: its number, the bearing from the centre
// in degrees [0,360), and an optional label.
type Branch struct {
	Number       int
	DirectionDeg float64
	Name         string
}

type Crossroad struct {
	ID       string
	Center   geodesy.Point
	Branches []Branch
}

// Validate rejects definitions that cannot disambiguate direction. Fewer
// than three branches leaves entry and exit indistinguishable, so such
// definitions are discarded at load time and never reach the resolver.
func (c *Crossroad) Validate() error {
	if len(c.Branches) < 3 {
		return fmt.Errorf("crossroad %s has %d branches, need at least 3 to classify directions", c.ID, len(c.Branches))
	}
	return nil
}

// ClosestBranch returns the branch number whose direction is nearest to the
// given bearing by circular angle difference. Every bearing resolves to some
// branch; there is no tolerance cut-off.
func (c *Crossroad) ClosestBranch(bearingDeg float64) int {
	best := c.Branches[0].Number
	bestDiff := math.Inf(1)

	for _, branch := range c.Branches {
		diff := geodesy.AngleDifference(bearingDeg, branch.DirectionDeg)
		if diff < bestDiff {
			bestDiff = diff
			best = branch.Number
		}
	}

	return best
}
