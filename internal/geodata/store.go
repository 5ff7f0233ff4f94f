// Package geodata owns the static reference geometry: loading and caching the
// named vector layers and the spatial primitives the analysis stages run on
// top of them (containment, intersection, clipping, reprojection, slope).
package geodata

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	gocache "github.com/patrickmn/go-cache"
	"github.com/paulmach/orb/geojson"
)

// Layer names. These are the only layers the store knows about.
const (
	LayerParcels        = "parcels"
	LayerContours       = "contours"
	LayerErosion        = "erosion"
	LayerPotentialSlide = "potential_slide"
	LayerSeismic        = "seismic"
	LayerSteepSlope     = "steep_slope"
	LayerWatercourse    = "watercourse"
)

// HazardLayerNames lists the five hazard layers in report order.
func HazardLayerNames() []string {
	return []string{LayerErosion, LayerPotentialSlide, LayerSeismic, LayerSteepSlope, LayerWatercourse}
}

// Source describes one layer file. CRS is declared here because GeoJSON
// exports carry no reliable CRS metadata of their own.
type Source struct {
	File string
	CRS  string
}

// DefaultSources maps layer names to the Mercer Island open data exports.
func DefaultSources() map[string]Source {
	return map[string]Source{
		LayerParcels:        {File: "Mercer_Island_Basemap_Data_Layers_PropertyLine.geojson", CRS: CRSGeographic},
		LayerContours:       {File: "Mercer_Island_Environmental_Layers_10ftLidarContours.geojson", CRS: CRSGeographic},
		LayerErosion:        {File: "Mercer_Island_Environmental_Layers_Erosion.geojson", CRS: CRSGeographic},
		LayerPotentialSlide: {File: "Mercer_Island_Environmental_Layers_PotentialSlideAreas.geojson", CRS: CRSGeographic},
		LayerSeismic:        {File: "Mercer_Island_Environmental_Layers_Seismic.geojson", CRS: CRSGeographic},
		LayerSteepSlope:     {File: "Mercer_Island_Environmental_Layers_SteepSlope.geojson", CRS: CRSGeographic},
		LayerWatercourse:    {File: "Mercer_Island_Environmental_Layers_WatercourseBufferSetback.geojson", CRS: CRSGeographic},
	}
}

// Layer is a named, CRS-tagged feature collection. Read-only after load and
// safe to share across requests without locking.
type Layer struct {
	Name       string
	CRS        string
	Collection *geojson.FeatureCollection
}

// Store loads the named vector layers and caches them for the process
// lifetime. A missing or corrupt source file is a configuration error for
// that layer, surfaced on load and never retried from a different source.
type Store struct {
	dataDir string
	sources map[string]Source
	cache   *gocache.Cache
	logger  *slog.Logger
	mu      sync.Mutex // serializes cold loads; cached reads bypass it
}

// NewStore creates a Store over the default Mercer Island layer sources.
func NewStore(dataDir string, logger *slog.Logger) *Store {
	return NewStoreWithSources(dataDir, DefaultSources(), logger)
}

// NewStoreWithSources creates a Store over a custom source map. Used by tests
// and by deployments with differently named exports.
func NewStoreWithSources(dataDir string, sources map[string]Source, logger *slog.Logger) *Store {
	return &Store{
		dataDir: dataDir,
		sources: sources,
		cache:   gocache.New(gocache.NoExpiration, 0),
		logger:  logger,
	}
}

// Names returns the configured layer names, sorted.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.sources))
	for name := range s.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load returns the named layer, reading and decoding its source file on
// first use. Idempotent: repeated calls return the same cached layer.
func (s *Store) Load(name string) (*Layer, error) {
	if cached, ok := s.cache.Get(name); ok {
		return cached.(*Layer), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.cache.Get(name); ok {
		return cached.(*Layer), nil
	}

	src, ok := s.sources[name]
	if !ok {
		return nil, fmt.Errorf("unknown layer %q", name)
	}

	path := filepath.Join(s.dataDir, src.File)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layer %s: %w", name, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode layer %s: %w", name, err)
	}

	layer := &Layer{Name: name, CRS: src.CRS, Collection: fc}
	s.cache.Set(name, layer, gocache.NoExpiration)

	s.logger.Info("layer loaded", "layer", name, "features", len(fc.Features), "crs", src.CRS)
	return layer, nil
}

// Preload eagerly loads every configured layer, failing on the first layer
// that cannot be read or decoded.
func (s *Store) Preload() error {
	for _, name := range s.Names() {
		if _, err := s.Load(name); err != nil {
			return err
		}
	}
	return nil
}

// FeatureCount returns the number of features in a loaded layer, or 0 if the
// layer has not been loaded.
func (s *Store) FeatureCount(name string) int {
	cached, ok := s.cache.Get(name)
	if !ok {
		return 0
	}
	return len(cached.(*Layer).Collection.Features)
}

// CheckReadiness returns nil once every configured layer has been loaded.
func (s *Store) CheckReadiness(_ context.Context) error {
	for _, name := range s.Names() {
		if _, ok := s.cache.Get(name); !ok {
			return fmt.Errorf("layer %q not loaded", name)
		}
	}
	return nil
}
