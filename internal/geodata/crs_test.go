package geodata

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReproject_CentralMeridianEasting(t *testing.T) {
	// A point on the zone 10 central meridian projects to the false easting.
	out, err := Reproject(orb.Point{-123.0, 47.57}, CRSGeographic, CRSPlanar)
	require.NoError(t, err)

	pt := out.(orb.Point)
	assert.InDelta(t, 500000.0, pt.X(), 1e-6)
	assert.Greater(t, pt.Y(), 5000000.0, "northing at 47.57N is north of 5,000 km")
}

func TestReproject_DistancesAreMeters(t *testing.T) {
	base := orb.Point{-122.2220, 47.5700}

	north, err := Reproject(orb.LineString{base, {-122.2220, 47.5710}}, CRSGeographic, CRSPlanar)
	require.NoError(t, err)
	east, err := Reproject(orb.LineString{base, {-122.2210, 47.5700}}, CRSGeographic, CRSPlanar)
	require.NoError(t, err)

	northLS := north.(orb.LineString)
	eastLS := east.(orb.LineString)

	dNorth := math.Hypot(northLS[1][0]-northLS[0][0], northLS[1][1]-northLS[0][1])
	dEast := math.Hypot(eastLS[1][0]-eastLS[0][0], eastLS[1][1]-eastLS[0][1])

	// 0.001 deg latitude is ~111.2 m everywhere; 0.001 deg longitude at
	// 47.57N is ~75.2 m.
	assert.InDelta(t, 111.2, dNorth, 0.5)
	assert.InDelta(t, 75.2, dEast, 0.5)
}

func TestReproject_SameCRSClones(t *testing.T) {
	original := orb.LineString{{-122.22, 47.57}, {-122.21, 47.57}}

	out, err := Reproject(original, CRSGeographic, CRSGeographic)
	require.NoError(t, err)

	clone := out.(orb.LineString)
	assert.Equal(t, original, clone)

	clone[0][0] = 0
	assert.Equal(t, -122.22, original[0][0], "clone must not alias the input")
}

func TestReproject_InputNotMutated(t *testing.T) {
	original := orb.LineString{{-122.22, 47.57}, {-122.21, 47.58}}

	_, err := Reproject(original, CRSGeographic, CRSPlanar)
	require.NoError(t, err)

	assert.Equal(t, orb.LineString{{-122.22, 47.57}, {-122.21, 47.58}}, original)
}

func TestReproject_UnsupportedPair(t *testing.T) {
	_, err := Reproject(orb.Point{0, 0}, CRSPlanar, CRSGeographic)
	assert.Error(t, err)
}

func TestReproject_NilGeometry(t *testing.T) {
	_, err := Reproject(nil, CRSGeographic, CRSPlanar)
	assert.Error(t, err)
}
