package geodata

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Intersects reports whether two geometries share at least one point. It is a
// boolean existential test, not an overlap measure, and works on any mix of
// point, line, and polygon geometries in a common CRS.
func Intersects(a, b orb.Geometry) bool {
	if a == nil || b == nil {
		return false
	}
	if !a.Bound().Intersects(b.Bound()) {
		return false
	}
	if anyVertexInside(a, b) || anyVertexInside(b, a) {
		return true
	}

	segA := segmentsOf(a)
	segB := segmentsOf(b)
	for _, sa := range segA {
		for _, sb := range segB {
			if segmentsTouch(sa[0], sa[1], sb[0], sb[1]) {
				return true
			}
		}
	}
	return false
}

// geometryContainsPoint reports whether a polygonal geometry contains p.
// Non-polygonal geometries contain nothing.
func geometryContainsPoint(g orb.Geometry, p orb.Point) bool {
	switch geom := g.(type) {
	case orb.Polygon:
		return planar.PolygonContains(geom, p)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(geom, p)
	case orb.Collection:
		for _, sub := range geom {
			if geometryContainsPoint(sub, p) {
				return true
			}
		}
	}
	return false
}

// anyVertexInside reports whether any vertex of g lies inside a polygon of
// container.
func anyVertexInside(g, container orb.Geometry) bool {
	for _, v := range verticesOf(g) {
		if geometryContainsPoint(container, v) {
			return true
		}
	}
	return false
}

func verticesOf(g orb.Geometry) []orb.Point {
	switch geom := g.(type) {
	case orb.Point:
		return []orb.Point{geom}
	case orb.MultiPoint:
		return geom
	case orb.LineString:
		return geom
	case orb.MultiLineString:
		var out []orb.Point
		for _, ls := range geom {
			out = append(out, ls...)
		}
		return out
	case orb.Ring:
		return geom
	case orb.Polygon:
		var out []orb.Point
		for _, ring := range geom {
			out = append(out, ring...)
		}
		return out
	case orb.MultiPolygon:
		var out []orb.Point
		for _, poly := range geom {
			out = append(out, verticesOf(poly)...)
		}
		return out
	case orb.Collection:
		var out []orb.Point
		for _, sub := range geom {
			out = append(out, verticesOf(sub)...)
		}
		return out
	}
	return nil
}

func segmentsOf(g orb.Geometry) [][2]orb.Point {
	switch geom := g.(type) {
	case orb.LineString:
		return lineSegments(geom)
	case orb.MultiLineString:
		var out [][2]orb.Point
		for _, ls := range geom {
			out = append(out, lineSegments(orb.LineString(ls))...)
		}
		return out
	case orb.Ring:
		return lineSegments(orb.LineString(geom))
	case orb.Polygon:
		var out [][2]orb.Point
		for _, ring := range geom {
			out = append(out, lineSegments(orb.LineString(ring))...)
		}
		return out
	case orb.MultiPolygon:
		var out [][2]orb.Point
		for _, poly := range geom {
			out = append(out, segmentsOf(poly)...)
		}
		return out
	case orb.Collection:
		var out [][2]orb.Point
		for _, sub := range geom {
			out = append(out, segmentsOf(sub)...)
		}
		return out
	}
	return nil
}

func lineSegments(ls orb.LineString) [][2]orb.Point {
	if len(ls) < 2 {
		return nil
	}
	out := make([][2]orb.Point, 0, len(ls)-1)
	for i := 0; i < len(ls)-1; i++ {
		out = append(out, [2]orb.Point{ls[i], ls[i+1]})
	}
	return out
}

// cross returns the z component of (b-a) × (p-a): positive when p is left of
// a→b, zero when collinear.
func cross(a, b, p orb.Point) float64 {
	return (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
}

// segmentsTouch reports whether segments p1→p2 and q1→q2 share any point,
// including collinear overlap and endpoint contact.
func segmentsTouch(p1, p2, q1, q2 orb.Point) bool {
	d1 := cross(q1, q2, p1)
	d2 := cross(q1, q2, p2)
	d3 := cross(p1, p2, q1)
	d4 := cross(p1, p2, q2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	switch {
	case d1 == 0 && onSegment(q1, q2, p1):
		return true
	case d2 == 0 && onSegment(q1, q2, p2):
		return true
	case d3 == 0 && onSegment(p1, p2, q1):
		return true
	case d4 == 0 && onSegment(p1, p2, q2):
		return true
	}
	return false
}

// onSegment reports whether collinear point p lies within the bounding box of
// segment a→b.
func onSegment(a, b, p orb.Point) bool {
	return min(a[0], b[0]) <= p[0] && p[0] <= max(a[0], b[0]) &&
		min(a[1], b[1]) <= p[1] && p[1] <= max(a[1], b[1])
}

// segmentCrossing returns the parameter t in (0, 1) along a→b where it
// crosses c→d. Parallel and collinear segments report no crossing; collinear
// overlap is resolved by the midpoint containment test during clipping.
func segmentCrossing(a, b, c, d orb.Point) (float64, bool) {
	rX, rY := b[0]-a[0], b[1]-a[1]
	sX, sY := d[0]-c[0], d[1]-c[1]

	denom := rX*sY - rY*sX
	if denom == 0 {
		return 0, false
	}

	acX, acY := c[0]-a[0], c[1]-a[1]
	t := (acX*sY - acY*sX) / denom
	u := (acX*rY - acY*rX) / denom

	if t <= 0 || t >= 1 || u < 0 || u > 1 {
		return 0, false
	}
	return t, true
}

func lerp(a, b orb.Point, t float64) orb.Point {
	return orb.Point{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t}
}

// ClipToParcel returns the portion of g inside the parcel geometry, or nil
// when the intersection is empty. Line geometries are split at every boundary
// crossing and only the interior pieces are kept. Non-line geometries are
// kept whole when they intersect the parcel at all.
func ClipToParcel(g, parcel orb.Geometry) orb.Geometry {
	polys := polygonsOf(parcel)
	if len(polys) == 0 {
		return nil
	}

	var lines orb.MultiLineString
	switch geom := g.(type) {
	case orb.LineString:
		for _, poly := range polys {
			lines = append(lines, clipLineToPolygon(geom, poly)...)
		}
	case orb.MultiLineString:
		for _, ls := range geom {
			for _, poly := range polys {
				lines = append(lines, clipLineToPolygon(ls, poly)...)
			}
		}
	default:
		if Intersects(g, parcel) {
			return orb.Clone(g)
		}
		return nil
	}

	switch len(lines) {
	case 0:
		return nil
	case 1:
		return lines[0]
	default:
		return lines
	}
}

// polygonsOf flattens a geometry into its polygon parts.
func polygonsOf(g orb.Geometry) []orb.Polygon {
	switch geom := g.(type) {
	case orb.Polygon:
		return []orb.Polygon{geom}
	case orb.MultiPolygon:
		return geom
	case orb.Collection:
		var out []orb.Polygon
		for _, sub := range geom {
			out = append(out, polygonsOf(sub)...)
		}
		return out
	}
	return nil
}

// clipLineToPolygon splits ls at every crossing of the polygon boundary and
// keeps the pieces whose midpoints lie inside.
func clipLineToPolygon(ls orb.LineString, poly orb.Polygon) orb.MultiLineString {
	var out orb.MultiLineString
	var current orb.LineString

	flush := func() {
		if len(current) >= 2 {
			out = append(out, current)
		}
		current = nil
	}

	for i := 0; i < len(ls)-1; i++ {
		a, b := ls[i], ls[i+1]

		ts := []float64{0, 1}
		for _, ring := range poly {
			for j := 0; j < len(ring)-1; j++ {
				if t, ok := segmentCrossing(a, b, ring[j], ring[j+1]); ok {
					ts = append(ts, t)
				}
			}
		}
		sort.Float64s(ts)

		for k := 0; k < len(ts)-1; k++ {
			t0, t1 := ts[k], ts[k+1]
			if t1-t0 < 1e-12 {
				continue
			}
			mid := lerp(a, b, (t0+t1)/2)
			if !planar.PolygonContains(poly, mid) {
				flush()
				continue
			}
			if len(current) == 0 {
				current = append(current, lerp(a, b, t0))
			}
			current = append(current, lerp(a, b, t1))
		}
	}
	flush()
	return out
}
