package helpers

import "database/sql"

// GetContentNullString maps "" to SQL NULL so optional references and
// nullable unique columns never store an empty string.
func GetContentNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
