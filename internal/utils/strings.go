package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCSV splits a comma-separated string and returns trimmed non-empty values.
// Returns nil for empty/whitespace-only input.
func ParseCSV(s string) []string {
	if s == "" {
		return nil
	}

	var result []string
	for _, v := range strings.Split(s, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return nil
	}

	return result
}

// ParseFloatList parses a comma-separated list of numbers such as "0.05,0.1,0.15".
// Returns nil for empty input.
func ParseFloatList(s string) ([]float64, error) {
	parts := ParseCSV(s)
	if parts == nil {
		return nil, nil
	}

	values := make([]float64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q at position %d: %w", part, i, err)
		}
		values[i] = v
	}
	return values, nil
}
