package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// formatTime renders t as stored in the database: UTC, second precision.
func formatTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// parseTime parses a stored timestamp. The column name is included in
// the error.
func parseTime(value, column string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", column, err)
	}
	return t, nil
}

// nullStatus maps an optional status code to a nullable column value.
func nullStatus(code *int) sql.NullInt64 {
	if code == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*code), Valid: true}
}

// statusPtr is the inverse of nullStatus.
func statusPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	code := int(v.Int64)
	return &code
}

// appendPagination adds LIMIT and OFFSET clauses for positive values.
// OFFSET without LIMIT needs LIMIT -1 in SQLite.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit <= 0 && offset <= 0 {
		return
	}
	if limit <= 0 {
		limit = -1
	}
	query.WriteString(" LIMIT ?")
	*args = append(*args, limit)
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}
