package geodata

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// Supported coordinate reference systems. Source layers ship geographic;
// anything measured in meters happens in the planar CRS.
const (
	CRSGeographic = "EPSG:4326"  // WGS-84 degrees
	CRSPlanar     = "EPSG:32610" // UTM zone 10N, meters
)

// WGS-84 ellipsoid and UTM zone 10N parameters.
const (
	semiMajorAxis         = 6378137.0
	flattening            = 1 / 298.257223563
	utmScaleFactor        = 0.9996
	utmFalseEasting       = 500000.0
	zone10CentralMeridian = -123.0
)

// Reproject returns a transformed copy of g. The input geometry is never
// modified. Only the geographic-to-planar transform is supported; layers
// already in the target CRS are cloned as-is.
func Reproject(g orb.Geometry, from, to string) (orb.Geometry, error) {
	if g == nil {
		return nil, fmt.Errorf("reproject: nil geometry")
	}
	if from == to {
		return orb.Clone(g), nil
	}
	if from == CRSGeographic && to == CRSPlanar {
		return project.Geometry(orb.Clone(g), toUTM10), nil
	}
	return nil, fmt.Errorf("unsupported reprojection from %s to %s", from, to)
}

// toUTM10 projects a WGS-84 (lon, lat) point into UTM zone 10N
// (easting, northing) meters using the standard transverse Mercator series.
func toUTM10(p orb.Point) orb.Point {
	lat := p.Y() * math.Pi / 180
	lon := p.X() * math.Pi / 180
	lon0 := zone10CentralMeridian * math.Pi / 180

	e2 := flattening * (2 - flattening)
	ep2 := e2 / (1 - e2)

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	tanLat := math.Tan(lat)

	n := semiMajorAxis / math.Sqrt(1-e2*sinLat*sinLat)
	t := tanLat * tanLat
	c := ep2 * cosLat * cosLat
	a := cosLat * (lon - lon0)

	// Meridional arc length from the equator.
	m := semiMajorAxis * ((1-e2/4-3*e2*e2/64-5*e2*e2*e2/256)*lat -
		(3*e2/8+3*e2*e2/32+45*e2*e2*e2/1024)*math.Sin(2*lat) +
		(15*e2*e2/256+45*e2*e2*e2/1024)*math.Sin(4*lat) -
		(35*e2*e2*e2/3072)*math.Sin(6*lat))

	easting := utmScaleFactor*n*(a+(1-t+c)*a*a*a/6+
		(5-18*t+t*t+72*c-58*ep2)*a*a*a*a*a/120) + utmFalseEasting

	northing := utmScaleFactor * (m + n*tanLat*(a*a/2+
		(5-t+9*c+4*c*c)*a*a*a*a/24+
		(61-58*t+t*t+600*c-330*ep2)*a*a*a*a*a*a/720))

	return orb.Point{easting, northing}
}
