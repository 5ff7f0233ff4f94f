package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/parcel-feasibility/internal/domain"
	"github.com/couchcryptid/parcel-feasibility/internal/geodata"
	"github.com/couchcryptid/parcel-feasibility/internal/narrative"
	"github.com/couchcryptid/parcel-feasibility/internal/observability"
	"github.com/couchcryptid/parcel-feasibility/internal/pipeline"
)

// Test fixtures: a single parcel near mid-island, two contour lines crossing
// it, a seismic zone overlapping it, every other hazard layer empty.

const fixtureParcels = `{
	"type": "FeatureCollection",
	"features": [{
		"type": "Feature",
		"properties": {"PARCEL_ID": "1924049001"},
		"geometry": {"type": "Polygon", "coordinates": [[
			[-122.2230, 47.5700], [-122.2210, 47.5700],
			[-122.2210, 47.5710], [-122.2230, 47.5710],
			[-122.2230, 47.5700]
		]]}
	}]
}`

const fixtureContours = `{
	"type": "FeatureCollection",
	"features": [
		{
			"type": "Feature",
			"properties": {"Elevation": 100},
			"geometry": {"type": "LineString", "coordinates": [
				[-122.2240, 47.5702], [-122.2200, 47.5702]
			]}
		},
		{
			"type": "Feature",
			"properties": {"Elevation": 110},
			"geometry": {"type": "LineString", "coordinates": [
				[-122.2240, 47.5707], [-122.2200, 47.5707]
			]}
		}
	]
}`

const fixtureSeismic = `{
	"type": "FeatureCollection",
	"features": [{
		"type": "Feature",
		"properties": {},
		"geometry": {"type": "Polygon", "coordinates": [[
			[-122.2250, 47.5690], [-122.2190, 47.5690],
			[-122.2190, 47.5720], [-122.2250, 47.5720],
			[-122.2250, 47.5690]
		]]}
	}]
}`

const fixtureEmpty = `{"type": "FeatureCollection", "features": []}`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixtureStore(t *testing.T) *geodata.Store {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		geodata.LayerParcels:        fixtureParcels,
		geodata.LayerContours:       fixtureContours,
		geodata.LayerSeismic:        fixtureSeismic,
		geodata.LayerErosion:        fixtureEmpty,
		geodata.LayerPotentialSlide: fixtureEmpty,
		geodata.LayerSteepSlope:     fixtureEmpty,
		geodata.LayerWatercourse:    fixtureEmpty,
	}

	sources := map[string]geodata.Source{}
	for name, content := range files {
		file := name + ".geojson"
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644))
		sources[name] = geodata.Source{File: file, CRS: geodata.CRSGeographic}
	}
	return geodata.NewStoreWithSources(dir, sources, discardLogger())
}

type stubGeocoder struct {
	result domain.GeocodingResult
	err    error
}

func (s *stubGeocoder) Geocode(_ context.Context, _ string) (domain.GeocodingResult, error) {
	return s.result, s.err
}

type stubGenerator struct {
	response string
}

func (s *stubGenerator) Generate(_ context.Context, _ string) (string, error) {
	return s.response, nil
}

func newAnalyzer(t *testing.T, geocoder domain.Geocoder, generator domain.TextGenerator) *pipeline.Analyzer {
	t.Helper()
	metrics := observability.NewMetricsForTesting()
	narrator := narrative.NewService(generator, metrics, discardLogger())
	return pipeline.New(fixtureStore(t), geocoder, narrator, discardLogger(), metrics)
}

func TestAnalyze_CompleteRun(t *testing.T) {
	geocoder := &stubGeocoder{
		result: domain.GeocodingResult{Latitude: 47.5705, Longitude: -122.2220, DisplayName: "match"},
	}
	generator := &stubGenerator{
		response: `{"summary": "generated", "recommendations": ["r1"]}`,
	}

	analyzer := newAnalyzer(t, geocoder, generator)
	record, err := analyzer.Analyze(context.Background(), domain.NewAddress("3005 76th Ave SE", "98040"))
	require.NoError(t, err)

	assert.Equal(t, "1924049001", record.ParcelID)
	assert.Equal(t, 47.5705, record.Coordinate.Latitude)
	assert.NotNil(t, record.Parcel)

	// Two contours crossing ~55 m apart with a 10 unit rise.
	assert.Greater(t, record.Slope.MaxSlope, 0.0)
	assert.GreaterOrEqual(t, record.Slope.MaxSlope, record.Slope.AverageSlope)

	assert.Equal(t, domain.HazardResult{Seismic: true}, record.Hazards)

	assert.Equal(t, "generated", record.LocationAnalysis.Summary)
	assert.False(t, record.GeneratedAt.IsZero())
}

func TestAnalyze_GeocodeFailure(t *testing.T) {
	analyzer := newAnalyzer(t, &stubGeocoder{err: errors.New("service down")}, nil)

	_, err := analyzer.Analyze(context.Background(), domain.NewAddress("3005 76th Ave SE", ""))

	assert.ErrorIs(t, err, domain.ErrAddressNotFound)
}

func TestAnalyze_AddressNotRecognized(t *testing.T) {
	analyzer := newAnalyzer(t, &stubGeocoder{result: domain.GeocodingResult{}}, nil)

	_, err := analyzer.Analyze(context.Background(), domain.NewAddress("1 Nowhere Ln", ""))

	assert.ErrorIs(t, err, domain.ErrAddressNotFound)
}

func TestAnalyze_CoordinateOutsideAnyParcel(t *testing.T) {
	geocoder := &stubGeocoder{
		result: domain.GeocodingResult{Latitude: 47.60, Longitude: -122.20, DisplayName: "off-island"},
	}
	analyzer := newAnalyzer(t, geocoder, nil)

	_, err := analyzer.Analyze(context.Background(), domain.NewAddress("9999 Elsewhere Rd", ""))

	assert.ErrorIs(t, err, domain.ErrParcelNotFound)
}

func TestAnalyze_NilGeneratorStillProducesRecord(t *testing.T) {
	geocoder := &stubGeocoder{
		result: domain.GeocodingResult{Latitude: 47.5705, Longitude: -122.2220, DisplayName: "match"},
	}
	analyzer := newAnalyzer(t, geocoder, nil)

	record, err := analyzer.Analyze(context.Background(), domain.NewAddress("3005 76th Ave SE", ""))
	require.NoError(t, err)

	assert.Equal(t, "1924049001", record.ParcelID)
	assert.NotEmpty(t, record.OverallFeasibility, "degraded narrative still fills the overall assessment")
	assert.NotEmpty(t, record.DetailedRecommendations)
}

func TestCheckReadiness(t *testing.T) {
	store := fixtureStore(t)
	metrics := observability.NewMetricsForTesting()
	analyzer := pipeline.New(store, &stubGeocoder{}, narrative.NewService(nil, metrics, discardLogger()), discardLogger(), metrics)

	assert.Error(t, analyzer.CheckReadiness(context.Background()))

	require.NoError(t, store.Preload())
	assert.NoError(t, analyzer.CheckReadiness(context.Background()))
}
