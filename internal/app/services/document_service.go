package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/projectdesk/internal/app/auth"
	"github.com/yigit/projectdesk/internal/app/models"
	"github.com/yigit/projectdesk/internal/app/models/dto"
	"github.com/yigit/projectdesk/internal/app/repositories"
	"github.com/yigit/projectdesk/internal/pkg/apperrors"
	"github.com/yigit/projectdesk/internal/pkg/filestorage"
)

// DocumentFileField is the multipart field carrying an uploaded document
const DocumentFileField = "documentFile"

// DefaultMaxUploadBytes is the upload limit used when none is configured
const DefaultMaxUploadBytes int64 = 10 << 20

// DocumentDownload is an open stored file ready to be streamed
type DocumentDownload struct {
	Content  io.ReadSeekCloser
	FileName string // attachment name shown to the client
	MimeType string
	Size     int64
}

// DocumentService handles the document lifecycle and its review
type DocumentService interface {
	Upload(ctx context.Context, actor appauth.Principal, projectID string, form *dto.UploadDocumentForm, file *multipart.FileHeader) (*dto.UploadDocumentResponse, error)
	Download(ctx context.Context, actor appauth.Principal, fileName string) (*DocumentDownload, error)
	Delete(ctx context.Context, actor appauth.Principal, documentID string) error
	Review(ctx context.Context, actor appauth.Principal, documentID, decision string) (*dto.DocumentStatusResponse, error)
}

// documentServiceImpl implements DocumentService
type documentServiceImpl struct {
	store          repositories.Store
	fileStorage    filestorage.FileStorage
	publisher      Publisher
	maxUploadBytes int64
	logger         zerolog.Logger
}

// NewDocumentService creates a new DocumentService. A non-positive limit selects DefaultMaxUploadBytes.
func NewDocumentService(
	store repositories.Store,
	fileStorage filestorage.FileStorage,
	publisher Publisher,
	maxUploadBytes int64,
	logger zerolog.Logger,
) DocumentService {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &documentServiceImpl{
		store:          store,
		fileStorage:    fileStorage,
		publisher:      publisher,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Upload stores the file and creates a pending document for the project
func (s *documentServiceImpl) Upload(ctx context.Context, actor appauth.Principal, projectID string, form *dto.UploadDocumentForm, file *multipart.FileHeader) (*dto.UploadDocumentResponse, error) {
	project, err := s.store.Projects().GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Users().GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if err := appauth.RequireParticipant(actor, project, user.RollNumber); err != nil {
		return nil, err
	}

	if file == nil {
		return nil, apperrors.NewCustomError(apperrors.ErrFileRequired, "No file uploaded").WithField(DocumentFileField)
	}
	if file.Size > s.maxUploadBytes {
		return nil, apperrors.NewCustomError(apperrors.ErrFileTooLarge,
			fmt.Sprintf("File exceeds the %d MB limit", s.maxUploadBytes>>20)).WithField(DocumentFileField)
	}

	stored, err := s.fileStorage.Save(file, DocumentFileField)
	if err != nil {
		return nil, fmt.Errorf("error storing uploaded file: %w", err)
	}

	now := models.Now()
	doc := &models.Document{
		ID:           models.NewID(),
		ProjectID:    project.ID,
		Name:         strings.TrimSpace(form.Name),
		Description:  strings.TrimSpace(form.Description),
		FileName:     stored.FileName,
		FilePath:     stored.Path,
		FileMimeType: stored.MimeType,
		FileSize:     stored.FileSize,
		Status:       models.DocumentStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Documents().Create(ctx, doc); err != nil {
		if delErr := s.fileStorage.Delete(stored.FileName); delErr != nil {
			s.logger.Warn().Err(delErr).Str("fileName", stored.FileName).Msg("Failed to remove orphaned upload")
		}
		return nil, err
	}

	s.logger.Info().Str("documentID", doc.ID).Str("projectID", project.ID).Int64("size", doc.FileSize).Msg("Document uploaded")

	return &dto.UploadDocumentResponse{
		Message:  "Document uploaded successfully.",
		Document: dto.NewDocumentResponse(doc),
	}, nil
}

// Download opens a stored document for the project leader
func (s *documentServiceImpl) Download(ctx context.Context, actor appauth.Principal, fileName string) (*DocumentDownload, error) {
	doc, err := s.store.Documents().GetByFileName(ctx, fileName)
	if err != nil {
		return nil, err
	}

	project, err := s.store.Projects().GetByID(ctx, doc.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := appauth.RequireLeader(actor, project); err != nil {
		return nil, err
	}

	content, err := s.fileStorage.Open(doc.FileName)
	if err != nil {
		if errors.Is(err, filestorage.ErrNotExist) {
			s.logger.Warn().Str("documentID", doc.ID).Str("fileName", doc.FileName).Msg("Stored file is missing")
			return nil, apperrors.NewCustomError(apperrors.ErrFileMissing, "File not found on server")
		}
		return nil, fmt.Errorf("error opening stored file: %w", err)
	}

	return &DocumentDownload{
		Content:  content,
		FileName: doc.Name + filepath.Ext(doc.FileName),
		MimeType: doc.FileMimeType,
		Size:     doc.FileSize,
	}, nil
}

// Delete removes the document record, then its stored bytes. Losing the bytes
// only produces a log line.
func (s *documentServiceImpl) Delete(ctx context.Context, actor appauth.Principal, documentID string) error {
	doc, err := s.store.Documents().GetByID(ctx, documentID)
	if err != nil {
		return err
	}

	project, err := s.store.Projects().GetByID(ctx, doc.ProjectID)
	if err != nil {
		return err
	}
	if err := appauth.RequireLeader(actor, project); err != nil {
		return err
	}

	if err := s.store.Documents().Delete(ctx, doc.ID); err != nil {
		return err
	}

	if err := s.fileStorage.Delete(doc.FileName); err != nil {
		s.logger.Warn().Err(err).Str("documentID", doc.ID).Str("fileName", doc.FileName).Msg("Failed to delete stored file")
	}

	s.logger.Info().Str("documentID", doc.ID).Str("projectID", project.ID).Msg("Document deleted")
	return nil
}

// Review moves a pending document to approved or rejected and notifies the leader
func (s *documentServiceImpl) Review(ctx context.Context, actor appauth.Principal, documentID, decision string) (*dto.DocumentStatusResponse, error) {
	status, ok := models.ParseDocumentDecision(decision)
	if !ok {
		return nil, apperrors.NewValidationError("status", "Status must be approved or rejected")
	}

	doc, err := s.store.Documents().GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	project, err := s.store.Projects().GetByID(ctx, doc.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := appauth.RequireMentor(actor, project); err != nil {
		return nil, err
	}
	if doc.Status.IsTerminal() {
		return nil, repositories.DocumentTransitionError(doc.Status)
	}

	var notification *models.Notification
	err = s.store.WithTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		updated, err := tx.Documents().UpdateStatus(ctx, doc.ID, models.DocumentStatusPending, status)
		if err != nil {
			return err
		}
		doc = updated

		notification = newNotification(project.StudentID, actor.UserID, models.NotificationDocumentStatus, project.ID, doc.ID,
			fmt.Sprintf("Your document \"%s\" has been %s.", doc.Name, status))
		return tx.Notifications().Create(ctx, notification)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("documentID", doc.ID).Str("status", string(status)).Msg("Document reviewed")
	s.publisher.Publish(ctx, notification)

	return &dto.DocumentStatusResponse{
		Message:  fmt.Sprintf("Document %s.", status),
		Document: dto.NewDocumentResponse(doc),
	}, nil
}
