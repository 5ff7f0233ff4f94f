package geodata

import (
	"fmt"

	"github.com/couchcryptid/parcel-feasibility/internal/domain"
)

// CheckHazards tests the parcel against each of the five hazard layers
// independently: an existential intersection test per layer, not a coverage
// measure. Layers stay in geographic coordinates; only topological overlap is
// tested, so no reprojection is involved.
//
// A failure to load any one layer fails the entire check. Partial hazard
// results are deliberately not produced: an incomplete safety picture must
// never be presented as a complete one.
func CheckHazards(parcel domain.ParcelGeometry, store *Store) (domain.HazardResult, error) {
	flags := make(map[string]bool, 5)

	for _, name := range HazardLayerNames() {
		layer, err := store.Load(name)
		if err != nil {
			return domain.HazardResult{}, fmt.Errorf("hazard check: %w", err)
		}

		hit := false
		for _, f := range layer.Collection.Features {
			if f.Geometry == nil {
				continue
			}
			if Intersects(f.Geometry, parcel.Geometry) {
				hit = true
				break
			}
		}
		flags[name] = hit
	}

	return domain.HazardResult{
		Erosion:        flags[LayerErosion],
		PotentialSlide: flags[LayerPotentialSlide],
		Seismic:        flags[LayerSeismic],
		SteepSlope:     flags[LayerSteepSlope],
		Watercourse:    flags[LayerWatercourse],
	}, nil
}
