// Package listview implements the list view-model shared by every project board:
// free-text search, stage partitioning, criteria filters, pagination and
// deadline durations. All functions are pure and never modify their input.
package listview

import "strings"

// Field extracts one searchable text value from a record. An absent value is
// reported as the empty string.
type Field[T any] func(T) string

// FilterBySearch keeps the records where any field contains query as a
// case-insensitive substring. An empty or all-whitespace query returns records
// unchanged.
func FilterBySearch[T any](records []T, query string, fields ...Field[T]) []T {
	if strings.TrimSpace(query) == "" {
		return records
	}
	needle := strings.ToLower(query)

	out := make([]T, 0, len(records))
	for _, rec := range records {
		if matchesAny(rec, needle, fields) {
			out = append(out, rec)
		}
	}
	return out
}

// MatchesSearch reports whether a single record would survive FilterBySearch.
func MatchesSearch[T any](rec T, query string, fields ...Field[T]) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	return matchesAny(rec, strings.ToLower(query), fields)
}

func matchesAny[T any](rec T, needle string, fields []Field[T]) bool {
	for _, field := range fields {
		if field == nil {
			continue
		}
		value := field(rec)
		if value == "" {
			continue
		}
		if strings.Contains(strings.ToLower(value), needle) {
			return true
		}
	}
	return false
}
