package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/projectdesk/internal/app/auth"
	"github.com/yigit/projectdesk/internal/app/models"
	"github.com/yigit/projectdesk/internal/app/models/dto"
	"github.com/yigit/projectdesk/internal/app/repositories"
	"github.com/yigit/projectdesk/internal/pkg/apperrors"
)

// Dashboard placeholders
const (
	NoDescriptionText = "No description added yet."
	NoMentorText      = "TBD Mentor"
)

// ProjectService handles mentor decisions, remarks, descriptions and project views
type ProjectService interface {
	TeacherProjects(ctx context.Context, actor appauth.Principal) ([]dto.ProjectResponse, error)
	RespondToMentorRequest(ctx context.Context, actor appauth.Principal, projectID, decision string) (*dto.MentorStatusResponse, error)
	SetFinalRemarks(ctx context.Context, actor appauth.Principal, projectID, remarks string) (*dto.RemarksResponse, error)
	StudentDashboard(ctx context.Context, actor appauth.Principal) (*dto.DashboardResponse, error)
	UpdateDescription(ctx context.Context, actor appauth.Principal, description string) (*dto.DescriptionResponse, error)
}

// projectServiceImpl implements ProjectService
type projectServiceImpl struct {
	store     repositories.Store
	publisher Publisher
	logger    zerolog.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(store repositories.Store, publisher Publisher, logger zerolog.Logger) ProjectService {
	return &projectServiceImpl{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// TeacherProjects lists every project mentored by the actor with leader and documents
func (s *projectServiceImpl) TeacherProjects(ctx context.Context, actor appauth.Principal) ([]dto.ProjectResponse, error) {
	if err := appauth.RequireRole(actor, models.RoleTeacher); err != nil {
		return nil, err
	}

	projects, err := s.store.Projects().ListByMentor(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("error listing mentored projects: %w", err)
	}

	out, err := populateProjects(ctx, s.store, projects)
	if err != nil {
		return nil, err
	}

	for i, p := range projects {
		docs, err := s.store.Documents().ListByProject(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("error listing project documents: %w", err)
		}
		out[i].Documents = dto.NewDocumentResponses(docs)
	}
	return out, nil
}

// RespondToMentorRequest moves a pending project to accepted or rejected and
// notifies the leader. Terminal projects are left untouched.
func (s *projectServiceImpl) RespondToMentorRequest(ctx context.Context, actor appauth.Principal, projectID, decision string) (*dto.MentorStatusResponse, error) {
	status, ok := models.ParseMentorDecision(decision)
	if !ok {
		return nil, apperrors.NewValidationError("status", "Status must be accepted or rejected")
	}

	project, err := s.store.Projects().GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := appauth.RequireMentor(actor, project); err != nil {
		return nil, err
	}
	if project.MentorStatus.IsTerminal() {
		return nil, repositories.MentorTransitionError(project.MentorStatus)
	}

	mentor, err := s.store.Users().GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("error loading mentor: %w", err)
	}

	var notification *models.Notification
	err = s.store.WithTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		updated, err := tx.Projects().UpdateMentorStatus(ctx, project.ID, models.MentorStatusPending, status)
		if err != nil {
			return err
		}
		project = updated

		notification = newNotification(project.StudentID, mentor.ID, models.NotificationMentorRequestResponse, project.ID, "",
			fmt.Sprintf("Your mentor request has been %s by %s.", status, mentor.Name))
		return tx.Notifications().Create(ctx, notification)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("projectID", project.ID).Str("status", string(status)).Msg("Mentor responded to project request")
	s.publisher.Publish(ctx, notification)

	leader, err := s.store.Users().GetByID(ctx, project.StudentID)
	if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, fmt.Errorf("error loading project leader: %w", err)
	}

	return &dto.MentorStatusResponse{
		Message: fmt.Sprintf("Project request %s.", status),
		Project: dto.NewProjectResponse(project, leader, mentor),
	}, nil
}

// SetFinalRemarks sets or replaces the mentor's remark on a project
func (s *projectServiceImpl) SetFinalRemarks(ctx context.Context, actor appauth.Principal, projectID, remarks string) (*dto.RemarksResponse, error) {
	if remarks == "" {
		return nil, apperrors.NewValidationError("finalRemarks", "Final remarks are required")
	}

	project, err := s.store.Projects().GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := appauth.RequireMentor(actor, project); err != nil {
		return nil, err
	}

	project, err = s.store.Projects().UpdateFinalRemarks(ctx, project.ID, remarks)
	if err != nil {
		return nil, err
	}

	populated, err := populateProjects(ctx, s.store, []*models.Project{project})
	if err != nil {
		return nil, err
	}

	return &dto.RemarksResponse{
		Message: "Final remarks added successfully.",
		Project: populated[0],
	}, nil
}

// StudentDashboard renders the project led by the actor
func (s *projectServiceImpl) StudentDashboard(ctx context.Context, actor appauth.Principal) (*dto.DashboardResponse, error) {
	project, err := s.store.Projects().GetByStudent(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	users, err := s.store.Users().GetByIDs(ctx, compactIDs(project.StudentID, project.MentorID))
	if err != nil {
		return nil, fmt.Errorf("error loading project users: %w", err)
	}

	docs, err := s.store.Documents().ListByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing project documents: %w", err)
	}

	resp := &dto.DashboardResponse{
		ProjectID:     project.ID,
		Title:         project.Title,
		Description:   project.Description,
		MentorName:    NoMentorText,
		MentorStatus:  project.MentorStatus,
		TeamMembers:   make([]dto.TeamMember, 0, len(project.Members)),
		MentorRemarks: []string{},
		Documents:     dto.NewDocumentResponses(docs),
	}
	if leader := users[project.StudentID]; leader != nil {
		resp.RegisteredName = leader.Name
	}
	if mentor := users[project.MentorID]; mentor != nil {
		resp.MentorName = mentor.MentorLabel()
	}
	if resp.Description == "" {
		resp.Description = NoDescriptionText
	}
	if project.FinalRemarks != "" {
		resp.MentorRemarks = append(resp.MentorRemarks, project.FinalRemarks)
	}
	for _, m := range project.Members {
		resp.TeamMembers = append(resp.TeamMembers, dto.TeamMember{Name: m.Name, Roll: m.Roll})
	}
	return resp, nil
}

// UpdateDescription replaces the description of the project led by the actor
func (s *projectServiceImpl) UpdateDescription(ctx context.Context, actor appauth.Principal, description string) (*dto.DescriptionResponse, error) {
	project, err := s.store.Projects().GetByStudent(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	project, err = s.store.Projects().UpdateDescription(ctx, project.ID, description)
	if err != nil {
		return nil, err
	}

	return &dto.DescriptionResponse{
		Message:     "Project description updated successfully.",
		Description: project.Description,
	}, nil
}

// populateProjects maps projects with their leader and mentor resolved in one lookup
func populateProjects(ctx context.Context, store repositories.Store, projects []*models.Project) ([]dto.ProjectResponse, error) {
	ids := make([]string, 0, len(projects)*2)
	for _, p := range projects {
		ids = append(ids, compactIDs(p.StudentID, p.MentorID)...)
	}

	users, err := store.Users().GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("error loading project users: %w", err)
	}

	out := make([]dto.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, dto.NewProjectResponse(p, users[p.StudentID], users[p.MentorID]))
	}
	return out, nil
}

// compactIDs drops empty identifiers
func compactIDs(ids ...string) []string {
	out := ids[:0:0]
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
