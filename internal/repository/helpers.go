package repository

import (
	"database/sql"
	"fmt"
	"time"
)

// nullableString converts a *string to a value suitable for SQLite storage.
func nullableString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// stringPtr converts a sql.NullString into a *string, nil for NULL.
func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// formatTime renders t as RFC3339 in UTC for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime parses an RFC3339 column, naming the column in the error.
func parseTime(column, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", column, err)
	}
	return t.UTC(), nil
}

// boolToInt converts a Go bool to an integer (0 or 1) for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a SQLite integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
