package narrative

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	whitespaceRE  = regexp.MustCompile(`\s+`)
	trailingObjRE = regexp.MustCompile(`,\s*}`)
	trailingArrRE = regexp.MustCompile(`,\s*]`)
)

// normalizeJSON strips code-fence markup, collapses embedded newlines and
// runs of whitespace, and removes trailing commas before closing braces and
// brackets. Text generators routinely wrap otherwise valid JSON in all three.
func normalizeJSON(raw string) string {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.NewReplacer("\n", " ", "\r", " ").Replace(cleaned)
	cleaned = whitespaceRE.ReplaceAllString(cleaned, " ")
	cleaned = trailingObjRE.ReplaceAllString(cleaned, "}")
	cleaned = trailingArrRE.ReplaceAllString(cleaned, "]")
	return strings.TrimSpace(cleaned)
}

// decodeJSON parses a generator response into v. The normalized form is
// tried first; if that fails, a minimally cleaned form (fences stripped only)
// is tried before giving up, since normalization can mangle content that was
// significant inside string values.
func decodeJSON(raw string, v any) error {
	cleaned := normalizeJSON(raw)
	if cleaned == "" {
		return fmt.Errorf("empty generator response")
	}
	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}

	fallback := strings.ReplaceAll(raw, "```json", "")
	fallback = strings.TrimSpace(strings.ReplaceAll(fallback, "```", ""))
	if err := json.Unmarshal([]byte(fallback), v); err != nil {
		return fmt.Errorf("parse generator response: %w", err)
	}
	return nil
}
