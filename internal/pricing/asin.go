package pricing

import (
	"regexp"
	"strings"
)

var asinPattern = regexp.MustCompile(`^B[A-Z0-9]{9}$`)

// IsValidASIN reports whether the input is a well-formed ASIN after
// uppercase normalization: a "B" followed by nine alphanumerics.
func IsValidASIN(asin string) bool {
	return asinPattern.MatchString(NormalizeASIN(asin))
}

// NormalizeASIN trims and uppercases an ASIN for storage and lookup.
func NormalizeASIN(asin string) string {
	return strings.ToUpper(strings.TrimSpace(asin))
}
