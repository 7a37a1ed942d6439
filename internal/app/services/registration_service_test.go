package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/projectdesk/internal/app/models"
	"github.com/yigit/projectdesk/internal/app/models/dto"
	"github.com/yigit/projectdesk/internal/app/repositories/memory"
	"github.com/yigit/projectdesk/internal/pkg/apperrors"
)

func TestSubmitRegistration(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	mentor := f.teacher(t, "Dr. Rao", "rao@college.edu", "T-001")

	resp, err := f.registration.SubmitRegistration(ctx, registrationRequest("Asha@College.edu", "CS-21-042", "Dr. Rao",
		dto.MemberRequest{MemberName: "Ravi Kumar", MemberRoll: "CS-21-043"}))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "asha@college.edu", resp.Email)
	assert.Equal(t, models.RoleStudent, resp.Role)

	project, err := f.store.Projects().GetByStudent(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Smart Irrigation", project.Title)
	assert.Equal(t, mentor.ID, project.MentorID)
	assert.Equal(t, "Dr. Rao", project.RequestedMentorName)
	assert.Equal(t, models.MentorStatusPending, project.MentorStatus)
	require.Len(t, project.Members, 1)
	assert.Equal(t, "CS-21-043", project.Members[0].Roll)

	notifications, err := f.store.Notifications().ListByRecipient(ctx, mentor.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	n := notifications[0]
	assert.Equal(t, models.NotificationProjectRequest, n.Type)
	assert.Equal(t, resp.ID, n.SenderID)
	assert.Equal(t, project.ID, n.ProjectID)
	assert.Equal(t, `New project request: "Smart Irrigation" by Asha Verma.`, n.Message)
	assert.False(t, n.IsRead)

	assert.Equal(t, 1, f.publisher.count())
}

func TestSubmitRegistrationBlankFields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	mentor := f.teacher(t, "Dr. Rao", "rao@college.edu", "T-001")

	tests := []struct {
		name  string
		blank func(req *dto.SubmitRegistrationRequest)
		field string
	}{
		{name: "name", blank: func(r *dto.SubmitRegistrationRequest) { r.Name = "   " }, field: "name"},
		{name: "phone", blank: func(r *dto.SubmitRegistrationRequest) { r.Phone = "\t" }, field: "phone"},
		{name: "roll number", blank: func(r *dto.SubmitRegistrationRequest) { r.RollNumber = "  " }, field: "rollNumber"},
		{name: "class", blank: func(r *dto.SubmitRegistrationRequest) { r.Class = " " }, field: "class"},
		{name: "project title", blank: func(r *dto.SubmitRegistrationRequest) { r.ProjectTitle = "  " }, field: "projectTitle"},
		{name: "mentor name", blank: func(r *dto.SubmitRegistrationRequest) { r.MentorName = " " }, field: "mentorName"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := registrationRequest("asha@college.edu", "CS-21-042", "Dr. Rao")
			tt.blank(req)

			_, err := f.registration.SubmitRegistration(ctx, req)
			require.ErrorIs(t, err, apperrors.ErrValidationFailed)
			var custom *apperrors.CustomError
			require.ErrorAs(t, err, &custom)
			assert.Equal(t, tt.field, custom.Field)
		})
	}

	_, err := f.store.Users().GetByEmail(ctx, "asha@college.edu")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	notifications, err := f.store.Notifications().ListByRecipient(ctx, mentor.ID)
	require.NoError(t, err)
	assert.Empty(t, notifications)
	assert.Equal(t, 0, f.publisher.count())
}

func TestSubmitRegistrationWithoutRoster(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.teacher(t, "Dr. Rao", "rao@college.edu", "T-001")

	resp, err := f.registration.SubmitRegistration(ctx, registrationRequest("asha@college.edu", "CS-21-042", "Dr. Rao"))
	require.NoError(t, err)

	project, err := f.store.Projects().GetByStudent(ctx, resp.ID)
	require.NoError(t, err)
	assert.Empty(t, project.Members)
}

func TestSubmitRegistrationIsAtomic(t *testing.T) {
	for _, entity := range []string{memory.EntityProject, memory.EntityNotification} {
		t.Run("fail on "+entity, func(t *testing.T) {
			ctx := context.Background()
			failing := false
			f := newFixture(t, memory.WithInsertHook(func(e string) error {
				if failing && e == entity {
					return errors.New("disk full")
				}
				return nil
			}))
			mentor := f.teacher(t, "Dr. Rao", "rao@college.edu", "T-001")
			failing = true

			_, err := f.registration.SubmitRegistration(ctx, registrationRequest("asha@college.edu", "CS-21-042", "Dr. Rao"))
			require.Error(t, err)

			_, err = f.store.Users().GetByEmail(ctx, "asha@college.edu")
			assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

			projects, err := f.store.Projects().ListByMentor(ctx, mentor.ID)
			require.NoError(t, err)
			assert.Empty(t, projects)

			notifications, err := f.store.Notifications().ListByRecipient(ctx, mentor.ID)
			require.NoError(t, err)
			assert.Empty(t, notifications)
			assert.Zero(t, f.publisher.count())
		})
	}
}

func TestSubmitRegistrationMentorResolution(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.teacher(t, "Dr. Rao", "rao@college.edu", "T-001")
	f.teacher(t, "Dr. Iyer", "iyer1@college.edu", "T-002")
	f.teacher(t, "Dr. Iyer", "iyer2@college.edu", "T-003")

	tests := []struct {
		name    string
		mentor  string
		wantErr error
	}{
		{"unknown mentor", "Dr. Nobody", apperrors.ErrMentorNotFound},
		{"ambiguous mentor", "Dr. Iyer", apperrors.ErrMentorAmbiguous},
		{"name match is exact", "dr. rao", apperrors.ErrMentorNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.registration.SubmitRegistration(ctx, registrationRequest("asha@college.edu", "CS-21-042", tt.mentor))
			require.ErrorIs(t, err, tt.wantErr)

			var custom *apperrors.CustomError
			require.ErrorAs(t, err, &custom)
			assert.Equal(t, "mentorName", custom.Field)

			_, err = f.store.Users().GetByEmail(ctx, "asha@college.edu")
			assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	}
}

func TestSubmitRegistrationDuplicates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.teacher(t, "Dr. Rao", "rao@college.edu", "T-001")
	_, err := f.registration.SubmitRegistration(ctx, registrationRequest("asha@college.edu", "CS-21-042", "Dr. Rao"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		email string
		roll  string
		field string
	}{
		{"email", "ASHA@college.edu", "CS-21-099", "email"},
		{"roll number", "other@college.edu", "CS-21-042", "rollNumber"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.registration.SubmitRegistration(ctx, registrationRequest(tt.email, tt.roll, "Dr. Rao"))
			require.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)

			var custom *apperrors.CustomError
			require.ErrorAs(t, err, &custom)
			assert.Equal(t, tt.field, custom.Field)
		})
	}
	assert.Equal(t, 1, f.publisher.count())
}
