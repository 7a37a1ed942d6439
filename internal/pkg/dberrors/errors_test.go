package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}

	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{"matching constraint", dup, "users_email_key", true},
		{"wrapped", fmt.Errorf("insert user: %w", dup), "users_email_key", true},
		{"other constraint", dup, "users_roll_number_key", false},
		{"other code", &pgconn.PgError{Code: "23503", ConstraintName: "users_email_key"}, "users_email_key", false},
		{"plain error", errors.New("boom"), "users_email_key", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicateConstraintError(tt.err, tt.constraint))
		})
	}
}

func TestDuplicateConstraint(t *testing.T) {
	assert.Equal(t, "projects_student_id_key", DuplicateConstraint(&pgconn.PgError{Code: "23505", ConstraintName: "projects_student_id_key"}))
	assert.Empty(t, DuplicateConstraint(errors.New("boom")))
}

func TestIsMongoDuplicateKey(t *testing.T) {
	err := mongo.WriteException{WriteErrors: mongo.WriteErrors{{
		Code:    11000,
		Message: "E11000 duplicate key error collection: projectdesk.users index: email_1 dup key: { email: \"a@b.c\" }",
	}}}

	assert.True(t, IsMongoDuplicateKey(err, ""))
	assert.True(t, IsMongoDuplicateKey(err, "email_1"))
	assert.False(t, IsMongoDuplicateKey(err, "roll_number_1"))
	assert.False(t, IsMongoDuplicateKey(errors.New("boom"), ""))
}
