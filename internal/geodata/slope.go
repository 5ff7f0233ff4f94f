package geodata

import (
	"log/slog"
	"math"
	"sort"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/couchcryptid/parcel-feasibility/internal/domain"
)

// elevationProperty is the attribute name in the LiDAR contour export.
const elevationProperty = "Elevation"

// Plausibility bounds on the spacing between consecutive contour crossing
// centroids, in meters. Spacing at or below the floor is a degenerate clip;
// spacing above the ceiling is a cross-map artifact. The floor doubles as the
// division guard: no slope angle is ever computed over a zero distance.
const (
	minCentroidSpacing = 0.5
	maxCentroidSpacing = 1000.0
)

// contourCrossing is one contour feature clipped to the parcel, reduced to
// its centroid in planar coordinates.
type contourCrossing struct {
	centroid  orb.Point
	elevation float64
}

// EstimateSlope intersects the parcel polygon with the elevation contour
// layer and reduces the crossings to average and maximum slope in degrees.
//
// Both the parcel and the contours are reprojected to the planar CRS before
// any distance is taken. Each intersecting contour is clipped to the parcel
// boundary; crossings are sorted by elevation ascending and consecutive pairs
// contribute atan(Δelevation / centroid distance). Fewer than two crossings,
// or no pair surviving the spacing filter, yields the (0, 0) sentinel.
func EstimateSlope(parcel domain.ParcelGeometry, contours *Layer, logger *slog.Logger) domain.SlopeResult {
	projected, err := Reproject(parcel.Geometry, CRSGeographic, CRSPlanar)
	if err != nil {
		logger.Error("parcel reprojection failed", "parcel_id", parcel.ParcelID, "error", err)
		return domain.SlopeResult{}
	}
	if len(polygonsOf(projected)) == 0 {
		logger.Error("parcel geometry has no polygon parts", "parcel_id", parcel.ParcelID)
		return domain.SlopeResult{}
	}

	// The bound prefilter compares against the parcel's geographic bound, so
	// it only applies when the contour layer is geographic too. Planar layers
	// go straight to projection.
	parcelBound := parcel.Geometry.Bound()
	prefilter := contours.CRS == CRSGeographic

	var crossings []contourCrossing
	missingElevation := 0

	for _, f := range contours.Collection.Features {
		if f.Geometry == nil {
			continue
		}
		if prefilter && !f.Geometry.Bound().Intersects(parcelBound) {
			continue
		}

		geom, err := Reproject(f.Geometry, contours.CRS, CRSPlanar)
		if err != nil {
			logger.Warn("contour reprojection failed, skipping feature", "error", err)
			continue
		}

		clipped := ClipToParcel(geom, projected)
		if clipped == nil {
			continue
		}

		elev, ok := elevationOf(f.Properties)
		if !ok {
			// Inherited degraded mode: a feature without an elevation value
			// participates with a 0 placeholder instead of aborting the run.
			missingElevation++
		}

		centroid, _ := planar.CentroidArea(clipped)
		crossings = append(crossings, contourCrossing{centroid: centroid, elevation: elev})
	}

	if missingElevation > 0 {
		logger.Warn("contour features missing elevation, substituted 0",
			"count", missingElevation,
			"parcel_id", parcel.ParcelID,
		)
	}

	if len(crossings) < 2 {
		logger.Info("insufficient contour crossings for slope estimate",
			"parcel_id", parcel.ParcelID,
			"crossings", len(crossings),
		)
		return domain.SlopeResult{}
	}

	sort.SliceStable(crossings, func(i, j int) bool {
		return crossings[i].elevation < crossings[j].elevation
	})

	return reduceSlopes(crossings)
}

// reduceSlopes derives the slope angle between each consecutive pair of
// crossings in elevation order, discards pairs outside the plausible spacing
// band, and reduces the survivors to (average, max). No survivors yields the
// (0, 0) sentinel.
func reduceSlopes(crossings []contourCrossing) domain.SlopeResult {
	var sum, maxAngle float64
	survivors := 0

	for i := 0; i < len(crossings)-1; i++ {
		dist := planar.Distance(crossings[i].centroid, crossings[i+1].centroid)
		if dist <= minCentroidSpacing || dist > maxCentroidSpacing {
			continue
		}

		rise := math.Abs(crossings[i+1].elevation - crossings[i].elevation)
		angle := math.Atan(rise/dist) * 180 / math.Pi

		sum += angle
		if angle > maxAngle {
			maxAngle = angle
		}
		survivors++
	}

	if survivors == 0 {
		return domain.SlopeResult{}
	}
	return domain.SlopeResult{
		AverageSlope: sum / float64(survivors),
		MaxSlope:     maxAngle,
	}
}

// elevationOf reads the elevation attribute, tolerating integer-typed and
// numeric-string values as exported attribute tables carry all three.
func elevationOf(props map[string]interface{}) (float64, bool) {
	switch v := props[elevationProperty].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		elev, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return elev, true
	}
	return 0, false
}
