package db

import "fmt"

// SQLite stores dates as text already in the wire format. PostgreSQL needs
// to_char so that DATE and TIMESTAMP columns scan into strings.

func selectDate(column string) string {
	if IsSQLite() {
		return column
	}
	return fmt.Sprintf("to_char(%s, 'YYYY-MM-DD')", column)
}

func selectDateTime(column string) string {
	if IsSQLite() {
		return column
	}
	return fmt.Sprintf("to_char(%s, 'YYYY-MM-DD HH24:MI:SS')", column)
}

func aggregateText(expr, separator, orderBy string) string {
	if IsSQLite() {
		return fmt.Sprintf("group_concat(%s, '%s' ORDER BY %s)", expr, separator, orderBy)
	}
	return fmt.Sprintf("string_agg(%s, '%s' ORDER BY %s)", expr, separator, orderBy)
}

func aggregateDistinctText(expr, separator string) string {
	if IsSQLite() {
		return fmt.Sprintf("group_concat(DISTINCT %s)", expr)
	}
	return fmt.Sprintf("string_agg(DISTINCT %s, '%s')", expr, separator)
}
