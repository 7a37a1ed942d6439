package repositories

import (
	"context"
	"fmt"

	"github.com/yigit/projectdesk/internal/app/models"
	"github.com/yigit/projectdesk/internal/pkg/apperrors"
)

// Unique constraint names. PostgreSQL constraints and MongoDB indexes share them
// so duplicate errors map to the same request field on every backend.
const (
	UniqueUserEmail        = "users_email_key"
	UniqueUserRollNumber   = "users_roll_number_key"
	UniqueUserEmployeeID   = "users_employee_id_key"
	UniqueProjectStudent   = "projects_student_id_key"
	UniqueDocumentFileName = "documents_file_name_key"
)

// RecentDecisionsLimit caps the student feed
const RecentDecisionsLimit = 5

// UserRepository stores accounts
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByIDs returns the users found, keyed by ID. Missing IDs are skipped.
	GetByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
	FindTeachersByName(ctx context.Context, name string) ([]*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]*models.User, error)
}

// ProjectRepository stores projects with their embedded rosters
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	GetByStudent(ctx context.Context, studentID string) (*models.Project, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*models.Project, error)
	ListByMentor(ctx context.Context, mentorID string) ([]*models.Project, error)
	// ListForMember returns projects led by studentID or whose roster carries rollNumber
	ListForMember(ctx context.Context, studentID, rollNumber string) ([]*models.Project, error)
	// UpdateMentorStatus changes the status only while it still equals from.
	// Otherwise it returns apperrors.ErrInvalidTransition.
	UpdateMentorStatus(ctx context.Context, id string, from, to models.MentorStatus) (*models.Project, error)
	UpdateFinalRemarks(ctx context.Context, id, remarks string) (*models.Project, error)
	UpdateDescription(ctx context.Context, id, description string) (*models.Project, error)
}

// DocumentRepository stores document metadata
type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id string) (*models.Document, error)
	GetByFileName(ctx context.Context, fileName string) (*models.Document, error)
	ListByProject(ctx context.Context, projectID string) ([]*models.Document, error)
	// ListPendingByProjects orders by creation time, oldest first
	ListPendingByProjects(ctx context.Context, projectIDs []string) ([]*models.Document, error)
	// ListDecidedByProjects orders by last update, newest first
	ListDecidedByProjects(ctx context.Context, projectIDs []string, limit int) ([]*models.Document, error)
	// UpdateStatus changes the status only while it still equals from.
	// Otherwise it returns apperrors.ErrInvalidTransition.
	UpdateStatus(ctx context.Context, id string, from, to models.DocumentStatus) (*models.Document, error)
	Delete(ctx context.Context, id string) error
}

// NotificationRepository stores persisted notifications. Nothing is ever deleted.
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	// ListByRecipient orders newest first
	ListByRecipient(ctx context.Context, recipientID string) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id string) (*models.Notification, error)
}

// TxFunc runs against a store bound to one transaction
type TxFunc func(ctx context.Context, tx Store) error

// Store groups the repositories of one storage backend
type Store interface {
	Users() UserRepository
	Projects() ProjectRepository
	Documents() DocumentRepository
	Notifications() NotificationRepository

	// WithTransaction runs fn atomically. When fn returns an error nothing it
	// wrote is kept. Nested calls join the outer transaction.
	WithTransaction(ctx context.Context, fn TxFunc) error

	Ping(ctx context.Context) error
	Name() string
	Close(ctx context.Context) error
}

// DuplicateError maps a violated unique constraint to the request field it guards
func DuplicateError(constraint string) error {
	switch constraint {
	case UniqueUserEmail:
		return apperrors.NewDuplicateError("email", "Email already registered")
	case UniqueUserRollNumber:
		return apperrors.NewDuplicateError("rollNumber", "Roll number already registered")
	case UniqueUserEmployeeID:
		return apperrors.NewDuplicateError("employeeId", "Employee ID already registered")
	case UniqueProjectStudent:
		return apperrors.NewDuplicateError("student", "Student already leads a project")
	case UniqueDocumentFileName:
		return apperrors.NewDuplicateError("fileName", "File name already in use")
	default:
		return apperrors.ErrResourceAlreadyExists
	}
}

// MentorTransitionError reports a response to a request that was already answered
func MentorTransitionError(current models.MentorStatus) error {
	return apperrors.NewInvalidTransitionError(fmt.Sprintf("Project request has already been %s", current))
}

// DocumentTransitionError reports a review of a document that was already reviewed
func DocumentTransitionError(current models.DocumentStatus) error {
	return apperrors.NewInvalidTransitionError(fmt.Sprintf("Document has already been %s", current))
}
