package auth

import (
	"github.com/yigit/projectdesk/internal/app/models"
	"github.com/yigit/projectdesk/internal/pkg/apperrors"
)

// Principal is the authenticated actor of a request
type Principal struct {
	UserID string
	Role   models.Role
}

// IsTeacher reports whether the actor has the teacher role
func (p Principal) IsTeacher() bool {
	return p.Role == models.RoleTeacher
}

// IsStudent reports whether the actor has the student role
func (p Principal) IsStudent() bool {
	return p.Role == models.RoleStudent
}

// RequireRole returns a forbidden error unless the actor has role
func RequireRole(p Principal, role models.Role) error {
	if p.Role != role {
		return apperrors.NewForbiddenError("Access denied for role " + string(p.Role))
	}
	return nil
}

// RequireMentor allows only the project's assigned mentor
func RequireMentor(p Principal, project *models.Project) error {
	if !project.IsMentor(p.UserID) {
		return apperrors.NewForbiddenError("Not authorized to review this project")
	}
	return nil
}

// RequireLeader allows only the student who leads the project
func RequireLeader(p Principal, project *models.Project) error {
	if !project.IsLeader(p.UserID) {
		return apperrors.NewForbiddenError("Only the project leader can perform this action")
	}
	return nil
}

// RequireParticipant allows the leader or a roster member identified by roll number
func RequireParticipant(p Principal, project *models.Project, rollNumber string) error {
	if project.IsLeader(p.UserID) || project.HasMemberRoll(rollNumber) {
		return nil
	}
	return apperrors.NewForbiddenError("Not a member of this project")
}
