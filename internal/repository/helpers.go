package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
)

// nullableString converts a *string to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil.
func nullableString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// stringPtr converts a sql.NullString into a *string.
func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
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

func formatDate(t time.Time) string {
	return domain.FormatDate(t)
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseInterval parses stored start/end columns into an Interval.
func parseInterval(start, end string) (domain.Interval, error) {
	s, err := time.Parse(domain.DateLayout, start)
	if err != nil {
		return domain.Interval{}, fmt.Errorf("parsing start_date: %w", err)
	}
	e, err := time.Parse(domain.DateLayout, end)
	if err != nil {
		return domain.Interval{}, fmt.Errorf("parsing end_date: %w", err)
	}
	return domain.Interval{Start: s, End: e}, nil
}

// parseTimestamps parses created_at/updated_at pairs.
func parseTimestamps(created, updated string) (time.Time, time.Time, error) {
	c, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing created_at: %w", err)
	}
	u, err := time.Parse(time.RFC3339, updated)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing updated_at: %w", err)
	}
	return c, u, nil
}

// requireAffected turns a zero-row UPDATE or DELETE into a not-found error.
func requireAffected(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, domain.ErrNotFound)
	}
	return nil
}
