package narrative

import (
	"fmt"
	"strings"

	"github.com/couchcryptid/parcel-feasibility/internal/domain"
)

// systemPrompt frames every generation request. It is prepended to each user
// prompt rather than sent as a separate turn.
const systemPrompt = `You are an expert geotechnical engineering assistant specializing in construction projects on Mercer Island, Washington. Your knowledge covers the local geological conditions of the Puget Sound region, Mercer Island's soil composition, Washington State building codes, and geotechnical engineering best practices.

For each analysis: state your assumptions explicitly, show step-by-step reasoning, cite relevant codes and standards (WSDOT Geotechnical Design Manual, IBC, ASCE 7, Mercer Island municipal code) where appropriate, and acknowledge the limitations of the available data.

Never present uncertain information as verified. When site-specific data would be required, say so and recommend verification by a licensed geotechnical engineer. Prioritize public safety in every recommendation. Maintain awareness of Mercer Island's seismic zone, glacial till soils, proximity to Lake Washington, and historical landslide areas.`

// jsonFormatHint closes every structured prompt.
const jsonFormatHint = "Ensure the JSON is properly formatted with no trailing commas, extra quotes, newlines inside keys or values, or syntax errors."

func locationPrompt(hazards domain.HazardResult) string {
	return systemPrompt + "\n\n" + fmt.Sprintf(`As an expert geotechnical engineer, analyze the following environmental data for a property in Mercer Island, WA:

Environmental Data:
- Erosion hazard: %v
- Potential slide area: %v
- Seismic hazard: %v
- Steep slope hazard: %v
- Watercourse buffer: %v

Provide a professional analysis of the location covering: the hazards present and their impact on construction, site-specific considerations, regulatory implications, and an initial risk assessment.

Return the response as a JSON object with the following structure:
{
    "summary": "string",
    "recommendations": ["string", ...]
}
`+jsonFormatHint,
		hazards.Erosion, hazards.PotentialSlide, hazards.Seismic, hazards.SteepSlope, hazards.Watercourse)
}

func slopePrompt(slope domain.SlopeResult) string {
	return systemPrompt + "\n\n" + fmt.Sprintf(`As an expert geotechnical engineer, analyze the following slope data for a property in Mercer Island, WA:

Slope Data:
- Average slope: %.2f degrees
- Maximum slope: %.2f degrees

Provide a professional analysis covering: interpretation of the contour-derived elevation changes, slope stability, implications for foundation design, and recommendations for further geotechnical investigation if needed.

Return the response as a JSON object with the following structure:
{
    "summary": "string",
    "recommendations": ["string", ...]
}
`+jsonFormatHint,
		slope.AverageSlope, slope.MaxSlope)
}

func reportPrompt(location, slope domain.Analysis) string {
	return systemPrompt + "\n\n" + fmt.Sprintf(`As an expert geotechnical engineer, create a comprehensive geotechnical feasibility report for a property in Mercer Island, WA, based on the analyses below. Provide specific, actionable recommendations with references to relevant regulations and codes, prioritizing safety while remaining practical for construction in Mercer Island's geological conditions.

Location Analysis:
- Summary: %s
- Recommendations: %s

Slope Analysis:
- Summary: %s
- Recommendations: %s

Return the response as a JSON object with the following structure:
{
    "location_analysis": {"summary": "string", "recommendations": ["string", ...]},
    "slope_analysis": {"summary": "string", "recommendations": ["string", ...]},
    "overall_feasibility": "string",
    "detailed_recommendations": ["string", ...]
}
Include a brief executive summary in 'overall_feasibility' and the key recommendations in 'detailed_recommendations'. `+jsonFormatHint,
		location.Summary, strings.Join(location.Recommendations, ", "),
		slope.Summary, strings.Join(slope.Recommendations, ", "))
}

func chatPrompt(record *domain.FeasibilityRecord, question string, history []domain.ChatExchange) string {
	var historyStr strings.Builder
	for _, ex := range history {
		fmt.Fprintf(&historyStr, "User: %s\nAssistant: %s\n\n", ex.Question, ex.Answer)
	}

	return systemPrompt + "\n\n" + fmt.Sprintf(`Based on the following feasibility report for a property in Mercer Island, WA, answer the user's question as part of an ongoing conversation. Use the conversation history to stay consistent and context-aware.

Feasibility Report:
- Location Analysis Summary: %s
- Location Recommendations: %s
- Slope Analysis Summary: %s
- Slope Recommendations: %s
- Overall Feasibility: %s
- Detailed Recommendations: %s

Conversation History:
%s
User's Current Question: %s

Provide a detailed, context-aware response grounded in the report.`,
		record.LocationAnalysis.Summary, strings.Join(record.LocationAnalysis.Recommendations, ", "),
		record.SlopeAnalysis.Summary, strings.Join(record.SlopeAnalysis.Recommendations, ", "),
		record.OverallFeasibility, strings.Join(record.DetailedRecommendations, ", "),
		historyStr.String(), question)
}
