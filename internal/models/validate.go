package models

import (
	"strings"

	"atelier/internal/domain"
)

// ValidateRequired checks that every field in the schema is present and
// non-empty in the document. It reports all missing fields at once.
func ValidateRequired(resource string, doc domain.Document, fields []string) error {
	var missing []string
	for _, f := range fields {
		if !fieldPresent(doc[f]) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &domain.ValidationError{Resource: resource, Missing: missing}
	}
	return nil
}

// fieldPresent treats nil, blank strings and empty composites as absent.
// Numeric and boolean zero values count as present: a price of 0 is data.
func fieldPresent(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}
