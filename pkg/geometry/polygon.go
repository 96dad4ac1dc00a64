package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// PointInPolygon tests if a point is inside a polygon using ray casting (even-odd rule).
// Polygons with fewer than 3 vertices contain nothing.
func PointInPolygon(p Point, polygon []Point) bool {
	if len(polygon) < 3 {
		return false
	}
	if !BoundingBox(polygon).Contains(p) {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// NearestVertex returns the index of the first vertex within radius of p.
// The scan runs in stored order, so ties go to the lowest index.
// Returns -1 and false when no vertex is close enough.
func NearestVertex(p Point, points []Point, radius float64) (int, bool) {
	if radius < 0 {
		return -1, false
	}
	for i, v := range points {
		if Distance(p, v) <= radius {
			return i, true
		}
	}
	return -1, false
}

// SegmentDistance returns the distance from p to the closest point of segment ab.
func SegmentDistance(p, a, b Point) float64 {
	ab := r2.Sub(b.Vec(), a.Vec())
	lenSq := r2.Dot(ab, ab)
	if lenSq == 0 {
		return Distance(p, a)
	}
	t := r2.Dot(r2.Sub(p.Vec(), a.Vec()), ab) / lenSq
	t = math.Max(0, math.Min(1, t))
	closest := r2.Add(a.Vec(), r2.Scale(t, ab))
	return r2.Norm(r2.Sub(p.Vec(), closest))
}
