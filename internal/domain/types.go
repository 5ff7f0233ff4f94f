package domain

import (
	"strings"
	"time"

	"github.com/paulmach/orb"
)

// Deployment-fixed address components. The service only analyzes parcels
// inside the Mercer Island city limits.
const (
	DefaultCity  = "Mercer Island"
	DefaultState = "WA"
)

// UnknownParcelID is the sentinel used when the parcel layer carries no
// PARCEL_ID attribute for a matched feature.
const UnknownParcelID = "unknown"

// Address is the user-supplied analysis input. Street is required; city and
// state are fixed per deployment; zip is optional.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip,omitempty"`
}

// NewAddress builds an Address with the deployment city and state.
func NewAddress(street, zip string) Address {
	return Address{
		Street: strings.TrimSpace(street),
		City:   DefaultCity,
		State:  DefaultState,
		Zip:    strings.TrimSpace(zip),
	}
}

// FullAddress returns the comma-separated form used as geocoder input.
func (a Address) FullAddress() string {
	parts := []string{a.Street, a.City, a.State}
	if a.Zip != "" {
		parts = append(parts, a.Zip)
	}
	return strings.Join(parts, ", ")
}

// Coordinate is a WGS-84 latitude/longitude pair in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether both components are inside their WGS-84 ranges.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// Point returns the coordinate in geometry axis order (lon, lat).
func (c Coordinate) Point() orb.Point {
	return orb.Point{c.Longitude, c.Latitude}
}

// ParcelGeometry is a matched parcel polygon in geographic coordinates.
// Read-only after creation.
type ParcelGeometry struct {
	ParcelID string       `json:"parcel_id"`
	Geometry orb.Geometry `json:"-"`
}

// SlopeResult holds the reduced slope figures in degrees. (0, 0) is the
// documented "insufficient contour data" sentinel, not a measured flat slope.
type SlopeResult struct {
	AverageSlope float64 `json:"average_slope"`
	MaxSlope     float64 `json:"max_slope"`
}

// HazardResult holds one existential intersection flag per hazard layer.
// Each flag means "parcel geometry intersects this layer's features".
type HazardResult struct {
	Erosion        bool `json:"erosion"`
	PotentialSlide bool `json:"potential_slide"`
	Seismic        bool `json:"seismic"`
	SteepSlope     bool `json:"steep_slope"`
	Watercourse    bool `json:"watercourse"`
}

// Analysis is one narrative section from the text-generation collaborator:
// a summary plus a list of recommendations.
type Analysis struct {
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
}

// ChatExchange is one question/answer pair in a session's report chat.
// Transcripts are append-only for the session lifetime.
type ChatExchange struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}

// FeasibilityRecord aggregates every structured and narrative result of one
// analysis run. Constructed once per request and held for the session.
type FeasibilityRecord struct {
	Address    Address      `json:"address"`
	Coordinate Coordinate   `json:"coordinate"`
	ParcelID   string       `json:"parcel_id"`
	Parcel     orb.Geometry `json:"-"`

	Slope   SlopeResult  `json:"slope"`
	Hazards HazardResult `json:"hazards"`

	LocationAnalysis        Analysis  `json:"location_analysis"`
	SlopeAnalysis           Analysis  `json:"slope_analysis"`
	OverallFeasibility      string    `json:"overall_feasibility"`
	DetailedRecommendations []string  `json:"detailed_recommendations"`
	GeneratedAt             time.Time `json:"generated_at"`
}
