package domain

import (
	"context"
	"log/slog"
)

// GeocodeAddress resolves an address to a coordinate, absorbing every failure
// mode into "no result": service timeouts and errors, unrecognized addresses,
// and out-of-range coordinates all return ok=false. Failures are logged for
// diagnosis but never surface as errors; a failed geocode simply ends the
// analysis attempt. No retry is performed.
func GeocodeAddress(ctx context.Context, addr Address, geocoder Geocoder, logger *slog.Logger) (Coordinate, bool) {
	query := addr.FullAddress()

	result, err := geocoder.Geocode(ctx, query)
	if err != nil {
		logger.Warn("geocoding failed",
			"query", query,
			"error", err,
		)
		return Coordinate{}, false
	}

	if !result.Found() {
		logger.Info("address not recognized by geocoder", "query", query)
		return Coordinate{}, false
	}

	coord := Coordinate{Latitude: result.Latitude, Longitude: result.Longitude}
	if !coord.Valid() {
		logger.Warn("geocoder returned out-of-range coordinate",
			"query", query,
			"latitude", result.Latitude,
			"longitude", result.Longitude,
		)
		return Coordinate{}, false
	}

	return coord, true
}
