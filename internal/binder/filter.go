package binder

import (
	"strings"

	"github.com/Manuufarina/gestion-zoonosis/internal/domain/repository"
)

// Match reports whether needle is a case-insensitive substring of any of
// the given fields. An empty needle matches everything.
func Match(needle string, fields ...string) bool {
	if needle == "" {
		return true
	}

	needle = strings.ToLower(needle)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}

	return false
}

// FilterRecords projects a snapshot down to the records whose extracted
// fields contain needle. The projection is pure and order-preserving; the
// input slice is never modified.
func FilterRecords[T any](records []repository.Record[T], needle string, fieldsOf func(T) []string) []repository.Record[T] {
	if needle == "" {
		return records
	}

	filtered := make([]repository.Record[T], 0, len(records))
	for _, rec := range records {
		if Match(needle, fieldsOf(rec.Data)...) {
			filtered = append(filtered, rec)
		}
	}

	return filtered
}
