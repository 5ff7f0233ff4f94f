package domain

import "context"

// GeocodingResult contains location data returned by a geocoding provider.
// The zero value means "no match".
type GeocodingResult struct {
	Latitude    float64
	Longitude   float64
	DisplayName string
}

// Found reports whether the provider returned a match.
func (r GeocodingResult) Found() bool {
	return r.Latitude != 0 || r.Longitude != 0
}

// Geocoder converts a formatted address string to coordinates.
type Geocoder interface {
	// Geocode resolves a free-text query. A zero-value result with a nil
	// error means the provider recognized the request but found no match.
	Geocode(ctx context.Context, query string) (GeocodingResult, error)
}

// TextGenerator is the narrative-generation collaborator boundary: a prompt
// goes in, free text (possibly JSON) comes out. Implementations must not leak
// transport failures past their boundary as anything but an error return.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
