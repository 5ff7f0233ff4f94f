// Package pipeline orchestrates one analysis run: geocode, parcel lookup,
// slope estimate, hazard checks, narrative, record assembly. The pipeline is
// stateless and synchronous; every stage consumes the previous stage's value
// and nothing is retried.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/parcel-feasibility/internal/domain"
	"github.com/couchcryptid/parcel-feasibility/internal/geodata"
	"github.com/couchcryptid/parcel-feasibility/internal/narrative"
	"github.com/couchcryptid/parcel-feasibility/internal/observability"
)

// Analyzer runs the feasibility pipeline against the loaded reference layers.
type Analyzer struct {
	store    *geodata.Store
	geocoder domain.Geocoder
	narrator *narrative.Service
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates an Analyzer with the given collaborators.
func New(store *geodata.Store, geocoder domain.Geocoder, narrator *narrative.Service, logger *slog.Logger, metrics *observability.Metrics) *Analyzer {
	return &Analyzer{
		store:    store,
		geocoder: geocoder,
		narrator: narrator,
		logger:   logger,
		metrics:  metrics,
	}
}

// CheckReadiness reports whether the reference layers are loaded.
func (a *Analyzer) CheckReadiness(ctx context.Context) error {
	return a.store.CheckReadiness(ctx)
}

// Analyze runs the full pipeline for one address. Input conditions surface as
// [domain.ErrAddressNotFound] and [domain.ErrParcelNotFound]; layer failures
// surface as operational errors. No partial record is ever returned.
func (a *Analyzer) Analyze(ctx context.Context, addr domain.Address) (*domain.FeasibilityRecord, error) {
	start := time.Now()

	coord, ok := stageTimer(a, "geocode", func() (domain.Coordinate, bool) {
		return domain.GeocodeAddress(ctx, addr, a.geocoder, a.logger)
	})
	if !ok {
		a.metrics.AnalysesTotal.WithLabelValues("address_not_found").Inc()
		return nil, domain.ErrAddressNotFound
	}
	a.logger.Info("address geocoded",
		"street", addr.Street,
		"latitude", coord.Latitude,
		"longitude", coord.Longitude,
	)

	parcels, err := a.store.Load(geodata.LayerParcels)
	if err != nil {
		a.metrics.AnalysesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load parcel layer: %w", err)
	}

	var locateErr error
	parcel, _ := stageTimer(a, "locate", func() (domain.ParcelGeometry, bool) {
		p, err := geodata.LocateParcel(parcels, coord, a.logger)
		locateErr = err
		return p, err == nil
	})
	if locateErr != nil {
		a.metrics.AnalysesTotal.WithLabelValues("parcel_not_found").Inc()
		return nil, locateErr
	}
	a.logger.Info("parcel located", "parcel_id", parcel.ParcelID)

	contours, err := a.store.Load(geodata.LayerContours)
	if err != nil {
		a.metrics.AnalysesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load contour layer: %w", err)
	}

	slope, _ := stageTimer(a, "slope", func() (domain.SlopeResult, bool) {
		return geodata.EstimateSlope(parcel, contours, a.logger), true
	})

	var hazardErr error
	hazards, _ := stageTimer(a, "hazards", func() (domain.HazardResult, bool) {
		h, err := geodata.CheckHazards(parcel, a.store)
		hazardErr = err
		return h, err == nil
	})
	if hazardErr != nil {
		a.metrics.AnalysesTotal.WithLabelValues("error").Inc()
		return nil, hazardErr
	}

	report, _ := stageTimer(a, "narrative", func() (domain.ReportNarrative, bool) {
		location := a.narrator.AnalyzeLocation(ctx, hazards)
		slopeAnalysis := a.narrator.AnalyzeSlope(ctx, slope)
		return a.narrator.ComposeReport(ctx, location, slopeAnalysis), true
	})

	record := domain.AssembleRecord(addr, coord, parcel, slope, hazards, report)

	a.metrics.AnalysesTotal.WithLabelValues("completed").Inc()
	a.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	a.logger.Info("analysis completed",
		"parcel_id", record.ParcelID,
		"average_slope", record.Slope.AverageSlope,
		"max_slope", record.Slope.MaxSlope,
		"duration", time.Since(start),
	)
	return record, nil
}

// stageTimer times one pipeline stage.
func stageTimer[T any](a *Analyzer, name string, fn func() (T, bool)) (T, bool) {
	start := time.Now()
	v, ok := fn()
	a.metrics.StageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	return v, ok
}
