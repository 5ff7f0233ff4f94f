// Command layercheck validates a GeoJSON layer directory before it is served.
// It decodes every layer, reports feature counts and geometry types, and
// verifies the attributes the analysis depends on: Elevation on contour
// features and PARCEL_ID on parcel features.
//
// Usage:
//
//	go run ./cmd/layercheck -data-dir data
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"

	"github.com/couchcryptid/parcel-feasibility/internal/geodata"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataDir := flag.String("data-dir", "data", "directory containing GeoJSON layer files")
	flag.Parse()

	if code := run(*dataDir); code != 0 {
		os.Exit(code)
	}
}

func run(dataDir string) int {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := geodata.NewStore(dataDir, logger)

	fmt.Println("=== GeoJSON Layer Validation ===")
	fmt.Println()

	layers := map[string]*geodata.Layer{}
	decode := &phase{name: "Phase 1: Decode (all layers)"}
	for _, name := range store.Names() {
		layer, err := store.Load(name)
		if err != nil {
			decode.errorf("%s: %v", name, err)
			continue
		}
		layers[name] = layer
	}

	phases := []*phase{
		decode,
		validateGeometries(layers),
		validateContours(layers[geodata.LayerContours]),
		validateParcels(layers[geodata.LayerParcels]),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 2: Geometry inventory ──
// Every feature must carry a geometry; counts per type are informational.

func validateGeometries(layers map[string]*geodata.Layer) *phase {
	p := &phase{name: "Phase 2: Geometries (per layer)"}

	names := make([]string, 0, len(layers))
	for name := range layers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		layer := layers[name]
		types := map[string]int{}
		for i, f := range layer.Collection.Features {
			if f.Geometry == nil {
				p.errorf("%s feature %d: missing geometry", name, i)
				continue
			}
			types[f.Geometry.GeoJSONType()]++
		}
		fmt.Printf("  %-32s %5d features  %v\n", name, len(layer.Collection.Features), types)
	}
	return p
}

// ── Phase 3: Contour elevations ──
// Slope estimation reads the Elevation attribute; missing values degrade the
// result, so report how many features lack one.

func validateContours(contours *geodata.Layer) *phase {
	p := &phase{name: "Phase 3: Contour elevations"}
	if contours == nil {
		p.errorf("contour layer not loaded")
		return p
	}

	var missing int
	for i, f := range contours.Collection.Features {
		switch v := f.Properties["Elevation"].(type) {
		case float64, int:
		case string:
			// Slope estimation parses string elevations, so only an
			// unparseable one is a defect.
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				p.errorf("feature %d: Elevation %q is not numeric", i, v)
			}
		case nil:
			missing++
		default:
			p.errorf("feature %d: Elevation has unexpected type %T", i, f.Properties["Elevation"])
		}
	}
	total := len(contours.Collection.Features)
	fmt.Printf("  contours: %d/%d features carry an Elevation value\n", total-missing, total)
	if total > 0 && missing == total {
		p.errorf("no contour feature carries an Elevation value")
	}
	return p
}

// ── Phase 4: Parcel identifiers ──

func validateParcels(parcels *geodata.Layer) *phase {
	p := &phase{name: "Phase 4: Parcel identifiers"}
	if parcels == nil {
		p.errorf("parcel layer not loaded")
		return p
	}

	var missing int
	for _, f := range parcels.Collection.Features {
		if f.Properties["PARCEL_ID"] == nil {
			missing++
		}
	}
	total := len(parcels.Collection.Features)
	fmt.Printf("  parcels: %d/%d features carry a PARCEL_ID\n", total-missing, total)
	if missing > 0 {
		p.errorf("%d parcel feature(s) missing PARCEL_ID", missing)
	}
	return p
}
