package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips any markup from free-text user input (names,
// address lines, search queries) before it reaches logs or emails.
func SanitizeText(input string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(input))
}
