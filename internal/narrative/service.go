// Package narrative is the boundary to the text-generation collaborator. It
// builds prompts from structured analysis results, normalizes and parses the
// generator's JSON responses, and degrades to fixed advisory text whenever
// generation or parsing fails. Failures never propagate past this package.
package narrative

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/parcel-feasibility/internal/domain"
	"github.com/couchcryptid/parcel-feasibility/internal/observability"
)

// Fixed degraded-mode texts. The system must never fabricate confident
// content when its generation step fails.
const (
	fallbackSummary        = "Automated narrative analysis is unavailable for this property."
	fallbackRecommendation = "Consult a licensed geotechnical engineer for a site-specific assessment before proceeding."
	fallbackChatAnswer     = "Sorry, I couldn't process your question. Please try again or consult a geotechnical engineer."
)

// Request kinds for metrics.
const (
	kindLocation = "location"
	kindSlope    = "slope"
	kindReport   = "report"
	kindChat     = "chat"
)

// Service drives narrative generation for analysis results. A nil generator
// means generation is disabled; every method then returns its degraded
// placeholder immediately.
type Service struct {
	generator domain.TextGenerator
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewService creates a narrative service. Pass a nil generator to disable
// generation.
func NewService(generator domain.TextGenerator, metrics *observability.Metrics, logger *slog.Logger) *Service {
	return &Service{
		generator: generator,
		metrics:   metrics,
		logger:    logger,
	}
}

// AnalyzeLocation produces the environmental-hazard narrative section.
func (s *Service) AnalyzeLocation(ctx context.Context, hazards domain.HazardResult) domain.Analysis {
	var analysis domain.Analysis
	if !s.generateInto(ctx, kindLocation, locationPrompt(hazards), &analysis) {
		return fallbackAnalysis()
	}
	return analysis
}

// AnalyzeSlope produces the slope-stability narrative section.
func (s *Service) AnalyzeSlope(ctx context.Context, slope domain.SlopeResult) domain.Analysis {
	var analysis domain.Analysis
	if !s.generateInto(ctx, kindSlope, slopePrompt(slope), &analysis) {
		return fallbackAnalysis()
	}
	return analysis
}

// ComposeReport produces the full report narrative from the two section
// analyses. On failure the sections are passed through unchanged and the
// overall assessment degrades to the fixed advisory.
func (s *Service) ComposeReport(ctx context.Context, location, slope domain.Analysis) domain.ReportNarrative {
	var report domain.ReportNarrative
	if !s.generateInto(ctx, kindReport, reportPrompt(location, slope), &report) {
		return domain.ReportNarrative{
			LocationAnalysis:        location,
			SlopeAnalysis:           slope,
			OverallFeasibility:      fallbackSummary,
			DetailedRecommendations: []string{fallbackRecommendation},
		}
	}
	return report
}

// Chat answers a follow-up question about a completed report. The response
// is free text, not JSON. Failures degrade to a fixed apology.
func (s *Service) Chat(ctx context.Context, record *domain.FeasibilityRecord, question string, history []domain.ChatExchange) string {
	if s.generator == nil {
		s.metrics.NarrativeRequests.WithLabelValues(kindChat, "degraded").Inc()
		return fallbackChatAnswer
	}

	answer, err := s.generate(ctx, chatPrompt(record, question, history))
	if err != nil {
		s.logger.Warn("chat generation failed", "error", err)
		s.metrics.NarrativeRequests.WithLabelValues(kindChat, "degraded").Inc()
		return fallbackChatAnswer
	}

	s.metrics.NarrativeRequests.WithLabelValues(kindChat, "success").Inc()
	return answer
}

// generateInto runs one structured generation request and parses the
// response into v. Returns false when the caller should use its degraded
// placeholder instead. The raw response is preserved in the log on parse
// failure for diagnosis.
func (s *Service) generateInto(ctx context.Context, kind, prompt string, v any) bool {
	if s.generator == nil {
		s.metrics.NarrativeRequests.WithLabelValues(kind, "degraded").Inc()
		return false
	}

	raw, err := s.generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("narrative generation failed", "kind", kind, "error", err)
		s.metrics.NarrativeRequests.WithLabelValues(kind, "degraded").Inc()
		return false
	}

	if err := decodeJSON(raw, v); err != nil {
		s.logger.Warn("narrative response unparseable",
			"kind", kind,
			"error", err,
			"raw", truncate(raw, 500),
		)
		s.metrics.NarrativeRequests.WithLabelValues(kind, "degraded").Inc()
		return false
	}

	s.metrics.NarrativeRequests.WithLabelValues(kind, "success").Inc()
	return true
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	raw, err := s.generator.Generate(ctx, prompt)
	s.metrics.NarrativeDuration.Observe(time.Since(start).Seconds())
	return raw, err
}

func fallbackAnalysis() domain.Analysis {
	return domain.Analysis{
		Summary:         fallbackSummary,
		Recommendations: []string{fallbackRecommendation},
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
