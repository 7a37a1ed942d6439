package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/projectdesk/internal/app/models/dto"
	"github.com/yigit/projectdesk/internal/pkg/apperrors"
)

func TestRegisterUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name    string
		req     dto.RegisterRequest
		field   string
		wantErr error
	}{
		{
			name:    "unknown role",
			req:     dto.RegisterRequest{Name: "X", Email: "x@college.edu", Password: "p", Role: "admin", Phone: "1"},
			field:   "role",
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "student without roll number",
			req:     dto.RegisterRequest{Name: "X", Email: "x@college.edu", Password: "p", Role: "student", Phone: "1", Class: "A"},
			field:   "rollNumber",
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "teacher without employee id",
			req:     dto.RegisterRequest{Name: "X", Email: "x@college.edu", Password: "p", Role: "teacher", Phone: "1", Designation: "Professor"},
			field:   "employeeId",
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "blank name",
			req:     dto.RegisterRequest{Name: "   ", Email: "x@college.edu", Password: "p", Role: "student", Phone: "1", RollNumber: "R-1", Class: "A"},
			field:   "name",
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "blank phone",
			req:     dto.RegisterRequest{Name: "X", Email: "x@college.edu", Password: "p", Role: "student", Phone: " \t", RollNumber: "R-1", Class: "A"},
			field:   "phone",
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "student with blank roll number",
			req:     dto.RegisterRequest{Name: "X", Email: "x@college.edu", Password: "p", Role: "student", Phone: "1", RollNumber: "   ", Class: "A"},
			field:   "rollNumber",
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "student with blank class",
			req:     dto.RegisterRequest{Name: "X", Email: "x@college.edu", Password: "p", Role: "student", Phone: "1", RollNumber: "R-1", Class: " "},
			field:   "class",
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "teacher with blank designation",
			req:     dto.RegisterRequest{Name: "X", Email: "x@college.edu", Password: "p", Role: "teacher", Phone: "1", Designation: "  ", EmployeeID: "T-9"},
			field:   "designation",
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name:    "teacher with blank employee id",
			req:     dto.RegisterRequest{Name: "X", Email: "x@college.edu", Password: "p", Role: "teacher", Phone: "1", Designation: "Professor", EmployeeID: " "},
			field:   "employeeId",
			wantErr: apperrors.ErrValidationFailed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.RegisterUser(ctx, &tt.req)
			require.ErrorIs(t, err, tt.wantErr)
			var custom *apperrors.CustomError
			require.ErrorAs(t, err, &custom)
			assert.Equal(t, tt.field, custom.Field)
		})
	}

	users, err := f.store.Users().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	t.Run("duplicate employee id", func(t *testing.T) {
		f.teacher(t, "Dr. Rao", "rao@college.edu", "T-001")
		_, err := f.auth.RegisterUser(ctx, &dto.RegisterRequest{
			Name: "Dr. Rao Jr", Email: "raojr@college.edu", Password: "p", Role: "teacher",
			Phone: "1", Designation: "Lecturer", EmployeeID: "T-001",
		})
		var custom *apperrors.CustomError
		require.ErrorAs(t, err, &custom)
		assert.Equal(t, "employeeId", custom.Field)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	registered := f.teacher(t, "Dr. Rao", "rao@college.edu", "T-001")

	resp, err := f.auth.Login(ctx, &dto.LoginRequest{Email: " RAO@college.edu", Password: "teacher-pass"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, resp.ID)
	assert.NotEmpty(t, resp.Token)
	assert.Positive(t, resp.ExpiresIn)

	for _, req := range []dto.LoginRequest{
		{Email: "rao@college.edu", Password: "wrong"},
		{Email: "nobody@college.edu", Password: "teacher-pass"},
	} {
		_, err := f.auth.Login(ctx, &req)
		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		assert.Equal(t, "Invalid email or password", err.Error())
	}
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := f.student(t, "Asha Verma", "asha@college.edu", "CS-21-042")

	name := "Asha V."
	blank := "  "
	resp, err := f.auth.UpdateProfile(ctx, user.ID, &dto.UpdateProfileRequest{Name: &name, Phone: &blank})
	require.NoError(t, err)
	assert.Equal(t, "Asha V.", resp.Name)
	assert.Equal(t, "555-0002", resp.Phone)

	stored, err := f.store.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha V.", stored.Name)

	_, err = f.auth.UpdateProfile(ctx, "missing", &dto.UpdateProfileRequest{Name: &name})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
