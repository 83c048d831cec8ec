package ai

import (
	"strings"

	"stockroom-api/internal/model"
)

// CleanLabel strips whitespace and quotes from a generated label.
func CleanLabel(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.TrimSpace(text), `"`, ""))
}

// CheckCategory cleans a suggested category and reports whether it is on
// the fixed category list.
func CheckCategory(text string) (string, bool) {
	label := CleanLabel(text)
	return label, model.IsKnownCategory(label)
}
