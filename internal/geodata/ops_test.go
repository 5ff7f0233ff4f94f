package geodata

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitSquare() orb.Polygon {
	return orb.Polygon{{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}}
}

func TestIntersects(t *testing.T) {
	square := unitSquare()

	tests := []struct {
		name string
		g    orb.Geometry
		want bool
	}{
		{name: "line crossing through", g: orb.LineString{{-5, 5}, {15, 5}}, want: true},
		{name: "line fully inside", g: orb.LineString{{2, 2}, {8, 8}}, want: true},
		{name: "line fully outside", g: orb.LineString{{20, 20}, {30, 30}}, want: false},
		{name: "line touching edge", g: orb.LineString{{10, 2}, {20, 2}}, want: true},
		{name: "overlapping polygon", g: orb.Polygon{{{5, 5}, {15, 5}, {15, 15}, {5, 15}, {5, 5}}}, want: true},
		{name: "disjoint polygon", g: orb.Polygon{{{20, 20}, {25, 20}, {25, 25}, {20, 25}, {20, 20}}}, want: false},
		{name: "polygon containing the square", g: orb.Polygon{{{-5, -5}, {15, -5}, {15, 15}, {-5, 15}, {-5, -5}}}, want: true},
		{name: "point inside", g: orb.Point{5, 5}, want: true},
		{name: "point outside", g: orb.Point{11, 5}, want: false},
		{name: "nil geometry", g: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Intersects(tt.g, square))
			if tt.g != nil {
				assert.Equal(t, tt.want, Intersects(square, tt.g), "intersection must be symmetric")
			}
		})
	}
}

func TestIntersects_EdgeCrossingWithNoVertexInside(t *testing.T) {
	// Two long thin rectangles crossing in a plus shape: no vertex of either
	// lies inside the other, only edges cross.
	horizontal := orb.Polygon{{{-10, 4}, {20, 4}, {20, 6}, {-10, 6}, {-10, 4}}}

	assert.True(t, Intersects(horizontal, unitSquare()))
}

func TestClipToParcel_LineCrossing(t *testing.T) {
	line := orb.LineString{{-5, 5}, {15, 5}}

	clipped := ClipToParcel(line, unitSquare())
	require.NotNil(t, clipped)

	ls, ok := clipped.(orb.LineString)
	require.True(t, ok, "single surviving piece collapses to a LineString")
	require.Len(t, ls, 2)
	assert.InDelta(t, 0.0, ls[0][0], 1e-9)
	assert.InDelta(t, 10.0, ls[1][0], 1e-9)
	assert.InDelta(t, 5.0, ls[0][1], 1e-9)
}

func TestClipToParcel_LineOutside(t *testing.T) {
	line := orb.LineString{{20, 20}, {30, 20}}

	assert.Nil(t, ClipToParcel(line, unitSquare()))
}

func TestClipToParcel_LineInsideKeptWhole(t *testing.T) {
	line := orb.LineString{{2, 5}, {8, 5}}

	clipped := ClipToParcel(line, unitSquare())
	require.NotNil(t, clipped)

	ls, ok := clipped.(orb.LineString)
	require.True(t, ok)
	assert.Equal(t, orb.LineString{{2, 5}, {8, 5}}, ls)
}

func TestClipToParcel_LineReenteringProducesTwoPieces(t *testing.T) {
	// U-shaped parcel: the line crosses both arms and the gap between them.
	parcel := orb.Polygon{{
		{0, 0}, {10, 0}, {10, 10}, {6, 10}, {6, 2}, {4, 2}, {4, 10}, {0, 10}, {0, 0},
	}}
	line := orb.LineString{{-2, 5}, {12, 5}}

	clipped := ClipToParcel(line, parcel)
	require.NotNil(t, clipped)

	mls, ok := clipped.(orb.MultiLineString)
	require.True(t, ok, "two surviving pieces stay a MultiLineString")
	assert.Len(t, mls, 2)
}

func TestClipToParcel_PolygonKeptWholeWhenIntersecting(t *testing.T) {
	overlapping := orb.Polygon{{{5, 5}, {15, 5}, {15, 15}, {5, 15}, {5, 5}}}

	clipped := ClipToParcel(overlapping, unitSquare())
	require.NotNil(t, clipped)
	assert.Equal(t, orb.Geometry(overlapping), clipped)
}

func TestClipToParcel_EmptyParcel(t *testing.T) {
	line := orb.LineString{{0, 0}, {1, 1}}

	assert.Nil(t, ClipToParcel(line, orb.LineString{{0, 0}, {1, 0}}))
}

func TestSegmentCrossing(t *testing.T) {
	t.Run("midpoint crossing", func(t *testing.T) {
		tt, ok := segmentCrossing(orb.Point{0, 0}, orb.Point{10, 0}, orb.Point{5, -5}, orb.Point{5, 5})
		require.True(t, ok)
		assert.InDelta(t, 0.5, tt, 1e-12)
	})

	t.Run("parallel", func(t *testing.T) {
		_, ok := segmentCrossing(orb.Point{0, 0}, orb.Point{10, 0}, orb.Point{0, 1}, orb.Point{10, 1})
		assert.False(t, ok)
	})

	t.Run("crossing beyond segment end", func(t *testing.T) {
		_, ok := segmentCrossing(orb.Point{0, 0}, orb.Point{10, 0}, orb.Point{15, -5}, orb.Point{15, 5})
		assert.False(t, ok)
	})
}
