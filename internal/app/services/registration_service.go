package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/projectdesk/internal/app/models"
	"github.com/yigit/projectdesk/internal/app/models/dto"
	"github.com/yigit/projectdesk/internal/app/repositories"
	"github.com/yigit/projectdesk/internal/pkg/apperrors"
)

// RegistrationService registers a student leader together with their project
type RegistrationService struct {
	store     repositories.Store
	auth      *AuthService
	publisher Publisher
	logger    zerolog.Logger
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(store repositories.Store, authService *AuthService, publisher Publisher, logger zerolog.Logger) *RegistrationService {
	return &RegistrationService{
		store:     store,
		auth:      authService,
		publisher: publisher,
		logger:    logger,
	}
}

// ResolveMentor finds the single teacher carrying exactly name
func (s *RegistrationService) ResolveMentor(ctx context.Context, name string) (*models.User, error) {
	teachers, err := s.store.Users().FindTeachersByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("error looking up mentor: %w", err)
	}

	switch len(teachers) {
	case 0:
		return nil, apperrors.NewCustomError(apperrors.ErrMentorNotFound, "Mentor not found").WithField("mentorName")
	case 1:
		return teachers[0], nil
	default:
		return nil, apperrors.NewCustomError(apperrors.ErrMentorAmbiguous, "Mentor name is ambiguous").WithField("mentorName")
	}
}

// SubmitRegistration creates the student, their project and the mentor's
// PROJECT_REQUEST notification. Either all three are stored or none is.
func (s *RegistrationService) SubmitRegistration(ctx context.Context, req *dto.SubmitRegistrationRequest) (*dto.AuthResponse, error) {
	student := &models.User{
		Name:       strings.TrimSpace(req.Name),
		Email:      NormalizeEmail(req.Email),
		Role:       models.RoleStudent,
		Phone:      strings.TrimSpace(req.Phone),
		RollNumber: strings.TrimSpace(req.RollNumber),
		Class:      strings.TrimSpace(req.Class),
	}
	title := strings.TrimSpace(req.ProjectTitle)

	err := requireFields(
		field{"name", student.Name},
		field{"phone", student.Phone},
		field{"rollNumber", student.RollNumber},
		field{"class", student.Class},
		field{"projectTitle", title},
		field{"mentorName", strings.TrimSpace(req.MentorName)},
	)
	if err != nil {
		return nil, err
	}

	mentor, err := s.ResolveMentor(ctx, req.MentorName)
	if err != nil {
		return nil, err
	}

	members := make([]models.Member, 0, len(req.Members))
	for _, m := range req.Members {
		members = append(members, models.Member{
			Name:  strings.TrimSpace(m.MemberName),
			Email: NormalizeEmail(m.MemberEmail),
			Roll:  strings.TrimSpace(m.MemberRoll),
			Class: strings.TrimSpace(m.MemberClass),
			Phone: strings.TrimSpace(m.MemberPhone),
		})
	}

	var project *models.Project
	var notification *models.Notification

	err = s.store.WithTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		if err := s.auth.createUser(ctx, tx, student, req.Password); err != nil {
			return err
		}

		now := models.Now()
		project = &models.Project{
			ID:                  models.NewID(),
			Title:               title,
			StudentID:           student.ID,
			Members:             members,
			MentorID:            mentor.ID,
			RequestedMentorName: mentor.Name,
			MentorStatus:        models.MentorStatusPending,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if err := tx.Projects().Create(ctx, project); err != nil {
			return err
		}

		notification = newNotification(mentor.ID, student.ID, models.NotificationProjectRequest, project.ID, "",
			fmt.Sprintf("New project request: \"%s\" by %s.", project.Title, student.Name))
		return tx.Notifications().Create(ctx, notification)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("studentID", student.ID).
		Str("projectID", project.ID).
		Str("mentorID", mentor.ID).
		Msg("Student registered with project")

	s.publisher.Publish(ctx, notification)

	return s.auth.authResponse(student)
}

// newNotification builds an unread notification stamped now
func newNotification(recipientID, senderID string, t models.NotificationType, projectID, documentID, message string) *models.Notification {
	now := models.Now()
	return &models.Notification{
		ID:          models.NewID(),
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        t,
		ProjectID:   projectID,
		DocumentID:  documentID,
		Message:     message,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
