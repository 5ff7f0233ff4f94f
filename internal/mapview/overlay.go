// Package mapview assembles GeoJSON overlays for rendering an analyzed
// parcel against the hazard layers. The output is plain data; any slippy-map
// frontend can consume it directly.
package mapview

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/couchcryptid/parcel-feasibility/internal/domain"
	"github.com/couchcryptid/parcel-feasibility/internal/geodata"
)

// DefaultZoom frames a single residential parcel with its surroundings.
const DefaultZoom = 16

// Style is a Leaflet-compatible path style for one overlay layer.
type Style struct {
	Color       string  `json:"color"`
	FillColor   string  `json:"fillColor,omitempty"`
	Weight      int     `json:"weight"`
	Fill        bool    `json:"fill"`
	FillOpacity float64 `json:"fillOpacity,omitempty"`
}

// LayerOverlay is one hazard layer with its display style.
type LayerOverlay struct {
	Name       string                     `json:"name"`
	Style      Style                      `json:"style"`
	Collection *geojson.FeatureCollection `json:"collection"`
}

// Overlay is everything a map frontend needs to draw one analysis.
type Overlay struct {
	Center [2]float64       `json:"center"` // lat, lon
	Zoom   int              `json:"zoom"`
	Parcel *geojson.Feature `json:"parcel"`
	Layers []LayerOverlay   `json:"layers"`
}

var layerStyles = map[string]Style{
	geodata.LayerErosion:        {Color: "orange", FillColor: "orange", Weight: 2, Fill: true, FillOpacity: 0.3},
	geodata.LayerPotentialSlide: {Color: "purple", FillColor: "purple", Weight: 2, Fill: true, FillOpacity: 0.3},
	geodata.LayerSeismic:        {Color: "red", FillColor: "red", Weight: 2, Fill: true, FillOpacity: 0.3},
	geodata.LayerSteepSlope:     {Color: "yellow", FillColor: "yellow", Weight: 2, Fill: true, FillOpacity: 0.3},
	geodata.LayerWatercourse:    {Color: "blue", Weight: 3, Fill: false},
}

var parcelStyle = Style{Color: "green", FillColor: "blue", Weight: 3, Fill: true, FillOpacity: 0.1}

// Builder assembles overlays from the loaded geodata layers.
type Builder struct {
	store *geodata.Store
}

func NewBuilder(store *geodata.Store) *Builder {
	return &Builder{store: store}
}

// Build returns a map overlay centered on the analyzed coordinate. The
// parcel polygon is included as its own styled feature; each hazard layer is
// included in full so the frontend can show context beyond the parcel.
func (b *Builder) Build(record *domain.FeasibilityRecord) (*Overlay, error) {
	overlay := &Overlay{
		Center: [2]float64{record.Coordinate.Latitude, record.Coordinate.Longitude},
		Zoom:   DefaultZoom,
	}

	if record.Parcel != nil {
		f := geojson.NewFeature(orb.Clone(record.Parcel))
		f.Properties = geojson.Properties{
			"parcel_id": record.ParcelID,
			"style":     parcelStyle,
		}
		overlay.Parcel = f
	}

	for _, name := range geodata.HazardLayerNames() {
		layer, err := b.store.Load(name)
		if err != nil {
			return nil, fmt.Errorf("loading layer %s for overlay: %w", name, err)
		}
		overlay.Layers = append(overlay.Layers, LayerOverlay{
			Name:       name,
			Style:      layerStyles[name],
			Collection: layer.Collection,
		})
	}
	return overlay, nil
}
