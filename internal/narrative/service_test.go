package narrative

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/parcel-feasibility/internal/domain"
	"github.com/couchcryptid/parcel-feasibility/internal/observability"
)

type stubGenerator struct {
	response string
	err      error
	prompts  []string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.response, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(gen domain.TextGenerator) *Service {
	return NewService(gen, observability.NewMetricsForTesting(), discardLogger())
}

func TestAnalyzeLocation_Success(t *testing.T) {
	gen := &stubGenerator{
		response: `{"summary": "seismic zone", "recommendations": ["soil study"]}`,
	}
	svc := newTestService(gen)

	analysis := svc.AnalyzeLocation(context.Background(), domain.HazardResult{Seismic: true})

	assert.Equal(t, "seismic zone", analysis.Summary)
	assert.Equal(t, []string{"soil study"}, analysis.Recommendations)
	assert.Contains(t, gen.prompts[0], "Seismic hazard: true")
}

func TestAnalyzeLocation_GeneratorErrorDegrades(t *testing.T) {
	svc := newTestService(&stubGenerator{err: errors.New("quota exceeded")})

	analysis := svc.AnalyzeLocation(context.Background(), domain.HazardResult{})

	assert.Equal(t, fallbackSummary, analysis.Summary)
	assert.Equal(t, []string{fallbackRecommendation}, analysis.Recommendations)
}

func TestAnalyzeLocation_UnparseableResponseDegrades(t *testing.T) {
	svc := newTestService(&stubGenerator{response: "I think the site is fine."})

	analysis := svc.AnalyzeLocation(context.Background(), domain.HazardResult{})

	assert.Equal(t, fallbackSummary, analysis.Summary)
}

func TestAnalyzeLocation_NilGeneratorDegrades(t *testing.T) {
	svc := newTestService(nil)

	analysis := svc.AnalyzeLocation(context.Background(), domain.HazardResult{})

	assert.Equal(t, fallbackSummary, analysis.Summary)
}

func TestAnalyzeSlope_FormatsDegrees(t *testing.T) {
	gen := &stubGenerator{
		response: `{"summary": "moderate", "recommendations": []}`,
	}
	svc := newTestService(gen)

	svc.AnalyzeSlope(context.Background(), domain.SlopeResult{AverageSlope: 12.3456, MaxSlope: 21.0})

	assert.Contains(t, gen.prompts[0], "Average slope: 12.35 degrees")
	assert.Contains(t, gen.prompts[0], "Maximum slope: 21.00 degrees")
}

func TestComposeReport_Success(t *testing.T) {
	gen := &stubGenerator{
		response: `{
			"location_analysis": {"summary": "refined loc", "recommendations": []},
			"slope_analysis": {"summary": "refined slope", "recommendations": []},
			"overall_feasibility": "feasible with mitigation",
			"detailed_recommendations": ["drainage plan"]
		}`,
	}
	svc := newTestService(gen)

	report := svc.ComposeReport(context.Background(),
		domain.Analysis{Summary: "loc"},
		domain.Analysis{Summary: "slope"},
	)

	assert.Equal(t, "refined loc", report.LocationAnalysis.Summary)
	assert.Equal(t, "feasible with mitigation", report.OverallFeasibility)
	assert.Equal(t, []string{"drainage plan"}, report.DetailedRecommendations)
}

func TestComposeReport_FailurePassesSectionsThrough(t *testing.T) {
	svc := newTestService(&stubGenerator{err: errors.New("unavailable")})

	location := domain.Analysis{Summary: "loc", Recommendations: []string{"a"}}
	slope := domain.Analysis{Summary: "slope"}

	report := svc.ComposeReport(context.Background(), location, slope)

	assert.Equal(t, location, report.LocationAnalysis, "section analyses survive report failure")
	assert.Equal(t, slope, report.SlopeAnalysis)
	assert.Equal(t, fallbackSummary, report.OverallFeasibility)
	assert.Equal(t, []string{fallbackRecommendation}, report.DetailedRecommendations)
}

func TestChat_Success(t *testing.T) {
	gen := &stubGenerator{response: "A standard slab foundation should work here."}
	svc := newTestService(gen)

	record := &domain.FeasibilityRecord{ParcelID: "1111", OverallFeasibility: "feasible"}
	history := []domain.ChatExchange{{Question: "earlier q", Answer: "earlier a"}}

	answer := svc.Chat(context.Background(), record, "What foundation type?", history)

	assert.Equal(t, "A standard slab foundation should work here.", answer)
	assert.Contains(t, gen.prompts[0], "What foundation type?")
	assert.Contains(t, gen.prompts[0], "earlier q")
}

func TestChat_FailureDegrades(t *testing.T) {
	svc := newTestService(&stubGenerator{err: errors.New("timeout")})

	answer := svc.Chat(context.Background(), &domain.FeasibilityRecord{}, "q", nil)

	assert.Equal(t, fallbackChatAnswer, answer)
}

func TestChat_NilGeneratorDegrades(t *testing.T) {
	svc := newTestService(nil)

	answer := svc.Chat(context.Background(), &domain.FeasibilityRecord{}, "q", nil)

	assert.Equal(t, fallbackChatAnswer, answer)
}
