package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Overlaps reports whether the areas of two features share interior
// points. Zones that only touch along an edge or at a vertex do not overlap.
func (l *Locations) Overlaps(a, b string) bool {
	fa, okA := l.features[a]
	fb, okB := l.features[b]
	if !okA || !okB || !fa.Bound.Intersects(fb.Bound) {
		return false
	}
	if edgesCross(fa.Geometry, fb.Geometry) {
		return true
	}
	return sampleInside(fa.Geometry, fb.Geometry) || sampleInside(fb.Geometry, fa.Geometry)
}

func contains(g orb.Geometry, pt orb.Point) bool {
	switch g := g.(type) {
	case orb.Polygon:
		return planar.PolygonContains(g, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, pt)
	}
	return false
}

// sampleInside tests vertices, edge midpoints and polygon centroids of a
// against the interior of b.
func sampleInside(a, b orb.Geometry) bool {
	inside := func(pt orb.Point) bool {
		return contains(b, pt) && !onBoundary(b, pt)
	}
	for _, p := range polygons(a) {
		if c, area := planar.CentroidArea(p); area > 0 && inside(c) {
			return true
		}
		for _, r := range p {
			for i := 1; i < len(r); i++ {
				mid := orb.Point{(r[i-1][0] + r[i][0]) / 2, (r[i-1][1] + r[i][1]) / 2}
				if inside(r[i]) || inside(mid) {
					return true
				}
			}
		}
	}
	return false
}

func onBoundary(g orb.Geometry, pt orb.Point) bool {
	for _, p := range polygons(g) {
		for _, r := range p {
			for i := 1; i < len(r); i++ {
				if onSegment(r[i-1], r[i], pt) {
					return true
				}
			}
		}
	}
	return false
}

// edgesCross reports a proper crossing between any edge of a and any edge
// of b.
func edgesCross(a, b orb.Geometry) bool {
	for _, pa := range polygons(a) {
		for _, ra := range pa {
			for i := 1; i < len(ra); i++ {
				for _, pb := range polygons(b) {
					for _, rb := range pb {
						for j := 1; j < len(rb); j++ {
							if properCross(ra[i-1], ra[i], rb[j-1], rb[j]) {
								return true
							}
						}
					}
				}
			}
		}
	}
	return false
}

const collinearEpsilon = 1e-12

func orient(a, b, c orb.Point) int {
	v := (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
	switch {
	case v > collinearEpsilon:
		return 1
	case v < -collinearEpsilon:
		return -1
	}
	return 0
}

func properCross(p1, p2, q1, q2 orb.Point) bool {
	o1, o2 := orient(p1, p2, q1), orient(p1, p2, q2)
	o3, o4 := orient(q1, q2, p1), orient(q1, q2, p2)
	return o1*o2 < 0 && o3*o4 < 0
}

func onSegment(a, b, pt orb.Point) bool {
	if orient(a, b, pt) != 0 {
		return false
	}
	return pt[0] >= math.Min(a[0], b[0]) && pt[0] <= math.Max(a[0], b[0]) &&
		pt[1] >= math.Min(a[1], b[1]) && pt[1] <= math.Max(a[1], b[1])
}
