// Package domain models parcel feasibility analysis for Mercer Island, WA.
//
// # Data Sources
//
// Reference geometry comes from the City of Mercer Island open data GeoJSON
// exports, fixed per deployment and read-only for the process lifetime:
//
//	parcels         PropertyLine polygons with a PARCEL_ID attribute
//	contours        10 ft LiDAR elevation contours with an Elevation attribute (feet)
//	erosion         erosion hazard areas
//	potential_slide potential slide areas
//	seismic         seismic hazard areas
//	steep_slope     steep slope hazard areas
//	watercourse     watercourse buffer setbacks
//
// All layers ship in geographic WGS-84 coordinates (EPSG:4326). Distance and
// slope arithmetic never happens on degrees: geometry is reprojected to UTM
// zone 10N (EPSG:32610, meters) first. Hazard overlap is a purely topological
// test and is evaluated in geographic coordinates directly.
//
// # Analysis Flow
//
// One user action drives the full pipeline sequentially:
//
//	address → geocode → parcel lookup → slope estimate → hazard checks → narrative
//
// Each stage consumes the previous stage's value; nothing is shared across
// concurrent analyses. A failed geocode or an address outside any parcel halts
// the pipeline as a user-facing condition ([ErrAddressNotFound],
// [ErrParcelNotFound]), not a fault.
//
// # Sentinels
//
// A SlopeResult of (0, 0) means "insufficient contour data", not a measured
// flat site. A parcel id of "unknown" means the source layer carried no
// PARCEL_ID attribute for the matched feature.
//
// Narrative fields are produced by an external text-generation collaborator
// and copied through unchanged; when generation fails they carry a fixed
// advisory telling the user to consult a licensed geotechnical engineer. The
// system never fabricates confident content for a failed generation step.
package domain
