package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const sqliteDialect = "sqlite"

// DialectName returns the name of the connection's active dialect, or an
// empty string when no dialector is attached.
func DialectName(conn *gorm.DB) string {
	if conn == nil || conn.Dialector == nil {
		return ""
	}
	return conn.Dialector.Name()
}

// IsSQLite reports whether the connection speaks SQLite rather than Postgres.
func IsSQLite(conn *gorm.DB) bool {
	return DialectName(conn) == sqliteDialect
}

// The store runs against both SQLite and Postgres, which disagree on
// case-insensitive matching and date extraction. Queries that need either
// build their SQL fragments through the helpers below instead of hardcoding
// one dialect.

// CaseInsensitiveLikeExpr returns a LIKE expression for column that ignores
// case on both dialects. Pair it with NormalizeLikePattern for the operand.
func CaseInsensitiveLikeExpr(conn *gorm.DB, column string) string {
	if IsSQLite(conn) {
		return fmt.Sprintf("LOWER(%s) LIKE ?", column)
	}
	return fmt.Sprintf("%s ILIKE ?", column)
}

// NormalizeLikePattern prepares a search pattern for CaseInsensitiveLikeExpr.
// SQLite has no ILIKE, so the pattern is lowercased to match the LOWER()
// side of the expression.
func NormalizeLikePattern(conn *gorm.DB, pattern string) string {
	if IsSQLite(conn) {
		return strings.ToLower(pattern)
	}
	return pattern
}

// MonthExpr returns an expression extracting the calendar month (1-12) of a
// timestamp column, used by the per-month earnings aggregation.
func MonthExpr(conn *gorm.DB, column string) string {
	if IsSQLite(conn) {
		return fmt.Sprintf("CAST(strftime('%%m', %s) AS INTEGER)", column)
	}
	return fmt.Sprintf("EXTRACT(MONTH FROM %s)::int", column)
}
