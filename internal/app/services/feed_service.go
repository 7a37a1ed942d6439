package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/projectdesk/internal/app/auth"
	"github.com/yigit/projectdesk/internal/app/models"
	"github.com/yigit/projectdesk/internal/app/models/dto"
	"github.com/yigit/projectdesk/internal/app/repositories"
	"github.com/yigit/projectdesk/internal/pkg/apperrors"
	"github.com/yigit/projectdesk/internal/pkg/helpers"
)

// Fallback names used when a referenced user no longer resolves
const (
	fallbackStudentName = "Student"
	fallbackMentorName  = "Mentor"
)

// FeedService computes the role-dependent aggregate view. Nothing it returns is stored.
type FeedService struct {
	store  repositories.Store
	logger zerolog.Logger
}

// NewFeedService creates a new FeedService
func NewFeedService(store repositories.Store, logger zerolog.Logger) *FeedService {
	return &FeedService{store: store, logger: logger}
}

// Assignments returns the actor's projects and their derived feed entries
func (s *FeedService) Assignments(ctx context.Context, actor appauth.Principal) (*dto.AssignmentsResponse, error) {
	user, err := s.store.Users().GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	switch user.Role {
	case models.RoleTeacher:
		return s.teacherAssignments(ctx, user)
	case models.RoleStudent:
		return s.studentAssignments(ctx, user)
	default:
		return nil, apperrors.NewForbiddenError("Access denied: invalid user role")
	}
}

// teacherAssignments lists pending documents of every mentored project, oldest first
func (s *FeedService) teacherAssignments(ctx context.Context, teacher *models.User) (*dto.AssignmentsResponse, error) {
	projects, err := s.store.Projects().ListByMentor(ctx, teacher.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing mentored projects: %w", err)
	}

	populated, err := populateProjects(ctx, s.store, projects)
	if err != nil {
		return nil, err
	}

	docs, err := s.store.Documents().ListPendingByProjects(ctx, projectIDs(projects))
	if err != nil {
		return nil, fmt.Errorf("error listing pending documents: %w", err)
	}

	byID := indexProjects(populated)
	requests := make([]dto.FeedItem, 0, len(docs))
	for _, doc := range docs {
		p, ok := byID[doc.ProjectID]
		if !ok {
			continue
		}
		studentName := fallbackStudentName
		if p.Student != nil {
			studentName = p.Student.Name
		}
		teacherName := teacher.Name
		if p.Mentor != nil {
			teacherName = p.Mentor.Name
		}
		requests = append(requests, dto.FeedItem{
			ID:          doc.ID,
			ProjectID:   p.ID,
			TeacherName: teacherName,
			StudentName: studentName,
			Status:      models.DocumentStatusPending.Upper(),
			Document:    feedDocument(doc),
			Message:     fmt.Sprintf("New file submitted by %s for Project: %s. Requires review.", studentName, p.Title),
			Type:        dto.FeedTypeDocumentApproval,
		})
	}

	return &dto.AssignmentsResponse{Projects: populated, Requests: requests}, nil
}

// studentAssignments lists the latest review decisions on projects the student leads or joins
func (s *FeedService) studentAssignments(ctx context.Context, student *models.User) (*dto.AssignmentsResponse, error) {
	projects, err := s.store.Projects().ListForMember(ctx, student.ID, student.RollNumber)
	if err != nil {
		return nil, fmt.Errorf("error listing member projects: %w", err)
	}

	populated, err := populateProjects(ctx, s.store, projects)
	if err != nil {
		return nil, err
	}

	docs, err := s.store.Documents().ListDecidedByProjects(ctx, projectIDs(projects), repositories.RecentDecisionsLimit)
	if err != nil {
		return nil, fmt.Errorf("error listing reviewed documents: %w", err)
	}

	byID := indexProjects(populated)
	requests := make([]dto.FeedItem, 0, len(docs))
	for _, doc := range docs {
		p, ok := byID[doc.ProjectID]
		if !ok {
			continue
		}
		reviewer := fallbackMentorName
		teacherName := p.RequestedMentorName
		if p.Mentor != nil {
			reviewer = p.Mentor.Name
			teacherName = p.Mentor.Name
		}
		if teacherName == "" {
			teacherName = fallbackMentorName
		}
		requests = append(requests, dto.FeedItem{
			ID:          doc.ID,
			ProjectID:   p.ID,
			TeacherName: teacherName,
			StudentName: student.Name,
			Status:      doc.Status.Upper(),
			Document:    feedDocument(doc),
			Message:     fmt.Sprintf("Document '%s' was %s by %s.", doc.Name, doc.Status, reviewer),
			Type:        dto.FeedTypeDocumentStatus,
		})
	}

	return &dto.AssignmentsResponse{Projects: populated, Requests: requests}, nil
}

func feedDocument(doc *models.Document) dto.FeedDocument {
	return dto.FeedDocument{
		ID:         doc.ID,
		Name:       doc.Name,
		ShortDesc:  doc.Description,
		UploadedOn: helpers.FormatDate(doc.CreatedAt),
	}
}

func projectIDs(projects []*models.Project) []string {
	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return ids
}

func indexProjects(projects []dto.ProjectResponse) map[string]dto.ProjectResponse {
	out := make(map[string]dto.ProjectResponse, len(projects))
	for _, p := range projects {
		out[p.ID] = p
	}
	return out
}
