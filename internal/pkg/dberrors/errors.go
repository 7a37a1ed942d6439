package dberrors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == constraintName
}

// DuplicateConstraint returns the violated constraint name of a PostgreSQL
// unique violation, or "" when err is something else.
func DuplicateConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName
	}
	return ""
}

// IsMongoDuplicateKey reports whether err is a MongoDB duplicate key error
// raised by the index named indexName. An empty indexName matches any index.
func IsMongoDuplicateKey(err error, indexName string) bool {
	if !mongo.IsDuplicateKeyError(err) {
		return false
	}
	if indexName == "" {
		return true
	}
	// The driver only exposes the index name through the server message:
	// "E11000 duplicate key error collection: db.users index: email_1 dup key: ..."
	return strings.Contains(err.Error(), "index: "+indexName+" ")
}
