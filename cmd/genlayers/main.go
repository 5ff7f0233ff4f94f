// Command genlayers writes a synthetic GeoJSON layer directory for local
// development and testing. The generated parcels, contours, and hazard areas
// are laid out on a small grid near the center of Mercer Island, so the
// service can run end to end without the real city exports.
//
// Usage:
//
//	go run ./cmd/genlayers -out data
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/couchcryptid/parcel-feasibility/internal/geodata"
)

// Grid origin, roughly mid-island.
const (
	originLat = 47.5700
	originLon = -122.2220
)

// Approximate degree spans for a 30m x 30m parcel at this latitude.
const (
	latStep = 0.00027
	lonStep = 0.00040
)

const gridSize = 4 // gridSize x gridSize parcels

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data", "output directory for GeoJSON layer files")
	flag.Parse()

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	layers := map[string]*geojson.FeatureCollection{
		geodata.LayerParcels:        genParcels(),
		geodata.LayerContours:       genContours(),
		geodata.LayerErosion:        genHazardBand(0, 1),
		geodata.LayerPotentialSlide: genHazardBand(1, 2),
		geodata.LayerSeismic:        genHazardBand(0, 2),
		geodata.LayerSteepSlope:     genHazardBand(2, 3),
		geodata.LayerWatercourse:    genWatercourse(),
	}

	sources := geodata.DefaultSources()
	for name, fc := range layers {
		path := filepath.Join(*out, sources[name].File)
		data, err := fc.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encoding %s: %w", name, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		log.Printf("%s: %d features -> %s", name, len(fc.Features), path)
	}
	return nil
}

// parcelRing returns the boundary of the parcel at grid cell (row, col).
func parcelRing(row, col int) orb.Ring {
	minLon := originLon + float64(col)*lonStep
	minLat := originLat + float64(row)*latStep
	return orb.Ring{
		{minLon, minLat},
		{minLon + lonStep, minLat},
		{minLon + lonStep, minLat + latStep},
		{minLon, minLat + latStep},
		{minLon, minLat},
	}
}

func genParcels() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for row := 0; row < gridSize; row++ {
		for col := 0; col < gridSize; col++ {
			f := geojson.NewFeature(orb.Polygon{parcelRing(row, col)})
			f.Properties = geojson.Properties{
				"PARCEL_ID": fmt.Sprintf("%04d%02d%02d", 1000+row*gridSize+col, row, col),
			}
			fc.Append(f)
		}
	}
	return fc
}

// genContours draws one west-east contour line per grid row boundary, with
// elevation climbing 10 ft per row. Each line crosses every parcel in its
// row, giving the slope stage real crossings to work with.
func genContours() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	west := originLon - lonStep
	east := originLon + float64(gridSize+1)*lonStep
	for row := 0; row <= gridSize; row++ {
		lat := originLat + float64(row)*latStep
		f := geojson.NewFeature(orb.LineString{{west, lat}, {east, lat}})
		f.Properties = geojson.Properties{"Elevation": float64(100 + row*10)}
		fc.Append(f)
	}
	return fc
}

// genHazardBand covers grid rows [fromRow, toRow) edge to edge with a single
// polygon, so every parcel in those rows intersects the hazard.
func genHazardBand(fromRow, toRow int) *geojson.FeatureCollection {
	minLat := originLat + float64(fromRow)*latStep
	maxLat := originLat + float64(toRow)*latStep
	minLon := originLon
	maxLon := originLon + float64(gridSize)*lonStep

	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Polygon{orb.Ring{
		{minLon, minLat},
		{maxLon, minLat},
		{maxLon, maxLat},
		{minLon, maxLat},
		{minLon, minLat},
	}}))
	return fc
}

// genWatercourse draws a stream buffer cutting diagonally across the last
// grid column.
func genWatercourse() *geojson.FeatureCollection {
	minLon := originLon + float64(gridSize-1)*lonStep
	maxLon := originLon + float64(gridSize)*lonStep
	minLat := originLat
	maxLat := originLat + float64(gridSize)*latStep

	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Polygon{orb.Ring{
		{minLon, minLat},
		{maxLon, minLat},
		{maxLon, maxLat},
		{minLon, maxLat},
		{minLon, minLat},
	}}))
	return fc
}
