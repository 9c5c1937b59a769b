// Package strings provides string list helpers for input files.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order is preserved.
//
//	DedupeAndTrim([]string{"  U_1 ", "U_2", "U_1", "", "  "})
//	// []string{"U_1", "U_2"}
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}

// SplitDedupe splits s on sep and applies DedupeAndTrim. An empty or
// whitespace-only s yields an empty, non-nil slice.
//
//	SplitDedupe("U_1, U_2,U_1,", ",")
//	// []string{"U_1", "U_2"}
func SplitDedupe(s, sep string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return DedupeAndTrim(strings.Split(s, sep))
}
