// Package physics provides proximity and hit-test helpers.
package physics

import "math"

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// PointInCircle checks if a point is within radius of a target position.
func PointInCircle(px, py, cx, cy, radius float64) bool {
	return DistanceSquared(px, py, cx, cy) <= radius*radius
}

// Overlaps is the placement proximity test between two square-bounded balls
// at (x1,y1) and (x2,y2) with sizes s1 and s2. They are too close when on
// both axes the separation is strictly below (s1+s2)/2 + gap. This is an
// axis-aligned approximation, not exact circle collision.
func Overlaps(x1, y1, s1, x2, y2, s2, gap float64) bool {
	limit := (s1+s2)/2 + gap
	return math.Abs(x1-x2) < limit && math.Abs(y1-y2) < limit
}
