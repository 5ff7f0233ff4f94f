package geodata

import (
	"log/slog"
	"strconv"

	"github.com/paulmach/orb"

	"github.com/couchcryptid/parcel-feasibility/internal/domain"
)

// parcelIDProperty is the attribute name in the PropertyLine export.
const parcelIDProperty = "PARCEL_ID"

// LocateParcel finds the parcel polygon containing the coordinate. The test
// point is built in (lon, lat) geometry axis order. The first containing
// feature in iteration order wins; overlapping parcels are not expected in
// the source data, so additional matches are only logged as ambiguous rather
// than changing the result. Zero matches return [domain.ErrParcelNotFound].
func LocateParcel(layer *Layer, coord domain.Coordinate, logger *slog.Logger) (domain.ParcelGeometry, error) {
	pt := coord.Point()

	var match orb.Geometry
	var matchID string
	matches := 0

	for _, f := range layer.Collection.Features {
		if f.Geometry == nil {
			continue
		}
		if !geometryContainsPoint(f.Geometry, pt) {
			continue
		}
		matches++
		if match == nil {
			match = f.Geometry
			matchID = parcelID(f.Properties)
		}
	}

	if match == nil {
		return domain.ParcelGeometry{}, domain.ErrParcelNotFound
	}
	if matches > 1 {
		logger.Warn("multiple parcels contain coordinate, using first match",
			"matches", matches,
			"parcel_id", matchID,
			"latitude", coord.Latitude,
			"longitude", coord.Longitude,
		)
	}

	return domain.ParcelGeometry{ParcelID: matchID, Geometry: orb.Clone(match)}, nil
}

// parcelID extracts the parcel identifier, tolerating numeric attribute
// values, and falls back to the "unknown" sentinel.
func parcelID(props map[string]interface{}) string {
	switch v := props[parcelIDProperty].(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	}
	return domain.UnknownParcelID
}
