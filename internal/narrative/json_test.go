package narrative

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/parcel-feasibility/internal/domain"
)

func TestDecodeJSON_CleanInput(t *testing.T) {
	var analysis domain.Analysis
	err := decodeJSON(`{"summary": "flat site", "recommendations": ["standard footings"]}`, &analysis)
	require.NoError(t, err)

	assert.Equal(t, "flat site", analysis.Summary)
	assert.Equal(t, []string{"standard footings"}, analysis.Recommendations)
}

func TestDecodeJSON_CodeFences(t *testing.T) {
	raw := "```json\n{\"summary\": \"ok\", \"recommendations\": []}\n```"

	var analysis domain.Analysis
	require.NoError(t, decodeJSON(raw, &analysis))
	assert.Equal(t, "ok", analysis.Summary)
}

func TestDecodeJSON_TrailingCommas(t *testing.T) {
	raw := `{"summary": "ok", "recommendations": ["a", "b",],}`

	var analysis domain.Analysis
	require.NoError(t, decodeJSON(raw, &analysis))
	assert.Equal(t, []string{"a", "b"}, analysis.Recommendations)
}

func TestDecodeJSON_EmbeddedNewlines(t *testing.T) {
	raw := "{\"summary\": \"line one\nline two\", \"recommendations\": []}"

	var analysis domain.Analysis
	require.NoError(t, decodeJSON(raw, &analysis))
	assert.Equal(t, "line one line two", analysis.Summary)
}

func TestDecodeJSON_AllThreeTogether(t *testing.T) {
	raw := "```json\n{\n  \"summary\": \"steep\",\n  \"recommendations\": [\n    \"retaining wall\",\n  ],\n}\n```"

	var analysis domain.Analysis
	require.NoError(t, decodeJSON(raw, &analysis))
	assert.Equal(t, "steep", analysis.Summary)
	assert.Equal(t, []string{"retaining wall"}, analysis.Recommendations)
}

func TestDecodeJSON_Garbage(t *testing.T) {
	var analysis domain.Analysis
	err := decodeJSON("the site looks fine to me", &analysis)
	assert.Error(t, err)
}

func TestDecodeJSON_Empty(t *testing.T) {
	var analysis domain.Analysis
	assert.Error(t, decodeJSON("", &analysis))
	assert.Error(t, decodeJSON("```json\n```", &analysis))
}

func TestNormalizeJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "collapses whitespace runs", in: "{\"a\":   1}", want: `{"a": 1}`},
		{name: "strips fences", in: "```json{\"a\":1}```", want: `{"a":1}`},
		{name: "removes trailing comma in object", in: `{"a":1,}`, want: `{"a":1}`},
		{name: "removes trailing comma in array", in: `[1,2,]`, want: `[1,2]`},
		{name: "trims", in: "  {\"a\":1}\n", want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeJSON(tt.in))
		})
	}
}
