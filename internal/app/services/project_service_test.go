package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appauth "github.com/yigit/projectdesk/internal/app/auth"
	"github.com/yigit/projectdesk/internal/app/models"
	"github.com/yigit/projectdesk/internal/app/models/dto"
	"github.com/yigit/projectdesk/internal/pkg/apperrors"
)

func TestRespondToMentorRequest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	mentor := principalOf(f.teacher(t, "Dr. Rao", "rao@college.edu", "T-001"))
	other := principalOf(f.teacher(t, "Dr. Iyer", "iyer@college.edu", "T-002"))
	leader, project := f.leader(t, "Dr. Rao")
	published := f.publisher.count()

	tests := []struct {
		name     string
		actor    appauth.Principal
		project  string
		decision string
		wantErr  error
	}{
		{"unknown decision", mentor, project.ID, "maybe", apperrors.ErrValidationFailed},
		{"pending is not a decision", mentor, project.ID, "pending", apperrors.ErrValidationFailed},
		{"missing project", mentor, "missing", "accepted", apperrors.ErrProjectNotFound},
		{"not the mentor", other, project.ID, "accepted", apperrors.ErrPermissionDenied},
		{"leader cannot respond", principalOf(leader), project.ID, "accepted", apperrors.ErrPermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.projects.RespondToMentorRequest(ctx, tt.actor, tt.project, tt.decision)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Equal(t, published, f.publisher.count())

	resp, err := f.projects.RespondToMentorRequest(ctx, mentor, project.ID, "accepted")
	require.NoError(t, err)
	assert.Equal(t, "Project request accepted.", resp.Message)
	assert.Equal(t, models.MentorStatusAccepted, resp.Project.MentorStatus)
	require.NotNil(t, resp.Project.Student)
	assert.Equal(t, "Asha Verma", resp.Project.Student.Name)

	notifications, err := f.store.Notifications().ListByRecipient(ctx, leader.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationMentorRequestResponse, notifications[0].Type)
	assert.Equal(t, "Your mentor request has been accepted by Dr. Rao.", notifications[0].Message)
	assert.Equal(t, published+1, f.publisher.count())

	t.Run("terminal status is final", func(t *testing.T) {
		for _, decision := range []string{"accepted", "rejected"} {
			_, err := f.projects.RespondToMentorRequest(ctx, mentor, project.ID, decision)
			require.ErrorIs(t, err, apperrors.ErrInvalidTransition)
			assert.Equal(t, "Project request has already been accepted", err.Error())
		}

		stored, err := f.store.Projects().GetByID(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, models.MentorStatusAccepted, stored.MentorStatus)

		notifications, err := f.store.Notifications().ListByRecipient(ctx, leader.ID)
		require.NoError(t, err)
		assert.Len(t, notifications, 1)
		assert.Equal(t, published+1, f.publisher.count())
	})
}

func TestSetFinalRemarks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	mentor := principalOf(f.teacher(t, "Dr. Rao", "rao@college.edu", "T-001"))
	other := principalOf(f.teacher(t, "Dr. Iyer", "iyer@college.edu", "T-002"))
	_, project := f.leader(t, "Dr. Rao")

	_, err := f.projects.SetFinalRemarks(ctx, mentor, project.ID, "")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.projects.SetFinalRemarks(ctx, other, project.ID, "Nice")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = f.projects.SetFinalRemarks(ctx, mentor, "missing", "Nice")
	assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)

	for _, remark := range []string{"Good start.", "Well documented, good demo."} {
		resp, err := f.projects.SetFinalRemarks(ctx, mentor, project.ID, remark)
		require.NoError(t, err)
		assert.Equal(t, "Final remarks added successfully.", resp.Message)
		assert.Equal(t, remark, resp.Project.FinalRemarks)
	}
}

func TestStudentDashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	mentor := principalOf(f.teacher(t, "Dr. Rao", "rao@college.edu", "T-001"))
	leader, project := f.leader(t, "Dr. Rao",
		dto.MemberRequest{MemberName: "Ravi Kumar", MemberRoll: "CS-21-043"},
		dto.MemberRequest{MemberName: "Meera Shah", MemberRoll: "CS-21-044"})
	actor := principalOf(leader)

	dash, err := f.projects.StudentDashboard(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, project.ID, dash.ProjectID)
	assert.Equal(t, "Asha Verma", dash.RegisteredName)
	assert.Equal(t, NoDescriptionText, dash.Description)
	assert.Equal(t, "Dr. Rao (Professor)", dash.MentorName)
	assert.Equal(t, models.MentorStatusPending, dash.MentorStatus)
	assert.Equal(t, []dto.TeamMember{{Name: "Ravi Kumar", Roll: "CS-21-043"}, {Name: "Meera Shah", Roll: "CS-21-044"}}, dash.TeamMembers)
	assert.Equal(t, []string{}, dash.MentorRemarks)
	assert.Empty(t, dash.Documents)

	desc, err := f.projects.UpdateDescription(ctx, actor, "Soil moisture driven drip control.")
	require.NoError(t, err)
	assert.Equal(t, "Project description updated successfully.", desc.Message)

	_, err = f.projects.SetFinalRemarks(ctx, mentor, project.ID, "Great work.")
	require.NoError(t, err)
	f.upload(t, actor, project.ID, "Synopsis")

	dash, err = f.projects.StudentDashboard(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, "Soil moisture driven drip control.", dash.Description)
	assert.Equal(t, []string{"Great work."}, dash.MentorRemarks)
	require.Len(t, dash.Documents, 1)
	assert.Equal(t, "Synopsis", dash.Documents[0].Name)

	t.Run("empty description is allowed", func(t *testing.T) {
		desc, err := f.projects.UpdateDescription(ctx, actor, "")
		require.NoError(t, err)
		assert.Equal(t, "", desc.Description)
	})

	t.Run("no led project", func(t *testing.T) {
		member := principalOf(f.student(t, "Ravi Kumar", "ravi@college.edu", "CS-21-043"))
		_, err := f.projects.StudentDashboard(ctx, member)
		assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)
		_, err = f.projects.UpdateDescription(ctx, member, "x")
		assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)
	})
}

func TestTeacherProjects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	mentor := principalOf(f.teacher(t, "Dr. Rao", "rao@college.edu", "T-001"))
	other := principalOf(f.teacher(t, "Dr. Iyer", "iyer@college.edu", "T-002"))
	leader, project := f.leader(t, "Dr. Rao")
	f.upload(t, principalOf(leader), project.ID, "Synopsis")
	f.upload(t, principalOf(leader), project.ID, "Design")

	projects, err := f.projects.TeacherProjects(ctx, mentor)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, project.ID, projects[0].ID)
	require.NotNil(t, projects[0].Student)
	assert.Equal(t, "CS-21-042", projects[0].Student.RollNumber)
	assert.Len(t, projects[0].Documents, 2)

	projects, err = f.projects.TeacherProjects(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, projects)

	_, err = f.projects.TeacherProjects(ctx, principalOf(leader))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
