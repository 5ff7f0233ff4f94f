package domain

// ReportNarrative is the full-report output of the narrative collaborator.
// The location and slope sections may refine the standalone analyses; the
// overall assessment and detailed recommendations only exist here.
type ReportNarrative struct {
	LocationAnalysis        Analysis `json:"location_analysis"`
	SlopeAnalysis           Analysis `json:"slope_analysis"`
	OverallFeasibility      string   `json:"overall_feasibility"`
	DetailedRecommendations []string `json:"detailed_recommendations"`
}

// AssembleRecord packages the structured results and narrative sections into
// a single feasibility record. Pure aggregation: every value is copied
// through unchanged, no computation happens here.
func AssembleRecord(addr Address, coord Coordinate, parcel ParcelGeometry, slope SlopeResult, hazards HazardResult, narrative ReportNarrative) *FeasibilityRecord {
	return &FeasibilityRecord{
		Address:    addr,
		Coordinate: coord,
		ParcelID:   parcel.ParcelID,
		Parcel:     parcel.Geometry,

		Slope:   slope,
		Hazards: hazards,

		LocationAnalysis:        narrative.LocationAnalysis,
		SlopeAnalysis:           narrative.SlopeAnalysis,
		OverallFeasibility:      narrative.OverallFeasibility,
		DetailedRecommendations: narrative.DetailedRecommendations,
		GeneratedAt:             clock.Now().UTC(),
	}
}
