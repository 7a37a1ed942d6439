package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	appauth "github.com/yigit/projectdesk/internal/app/auth"
	"github.com/yigit/projectdesk/internal/app/models"
	"github.com/yigit/projectdesk/internal/app/models/dto"
	"github.com/yigit/projectdesk/internal/app/repositories/memory"
	"github.com/yigit/projectdesk/internal/pkg/auth"
	"github.com/yigit/projectdesk/internal/pkg/filestorage"
)

type recordingPublisher struct {
	mu        sync.Mutex
	published []*models.Notification
}

func (p *recordingPublisher) Publish(_ context.Context, notifications ...*models.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, notifications...)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

type fixture struct {
	store         *memory.Store
	dir           string
	files         *filestorage.LocalStorage
	publisher     *recordingPublisher
	auth          *AuthService
	registration  *RegistrationService
	projects      ProjectService
	documents     DocumentService
	feed          *FeedService
	notifications *NotificationService
}

func newFixture(t *testing.T, opts ...memory.Option) *fixture {
	t.Helper()

	dir := t.TempDir()
	files, err := filestorage.NewLocalStorage(dir)
	require.NoError(t, err)

	logger := zerolog.Nop()
	store := memory.NewStore(opts...)
	publisher := &recordingPublisher{}
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "projectdesk-test",
	})
	authService := NewAuthService(store, jwtService, logger)

	return &fixture{
		store:         store,
		dir:           dir,
		files:         files,
		publisher:     publisher,
		auth:          authService,
		registration:  NewRegistrationService(store, authService, publisher, logger),
		projects:      NewProjectService(store, publisher, logger),
		documents:     NewDocumentService(store, files, publisher, 0, logger),
		feed:          NewFeedService(store, logger),
		notifications: NewNotificationService(store, logger),
	}
}

func principalOf(resp *dto.AuthResponse) appauth.Principal {
	return appauth.Principal{UserID: resp.ID, Role: resp.Role}
}

func (f *fixture) teacher(t *testing.T, name, email, employeeID string) *dto.AuthResponse {
	t.Helper()
	resp, err := f.auth.RegisterUser(context.Background(), &dto.RegisterRequest{
		Name:        name,
		Email:       email,
		Password:    "teacher-pass",
		Role:        string(models.RoleTeacher),
		Phone:       "555-0001",
		Designation: "Professor",
		EmployeeID:  employeeID,
	})
	require.NoError(t, err)
	return resp
}

func (f *fixture) student(t *testing.T, name, email, roll string) *dto.AuthResponse {
	t.Helper()
	resp, err := f.auth.RegisterUser(context.Background(), &dto.RegisterRequest{
		Name:       name,
		Email:      email,
		Password:   "student-pass",
		Role:       string(models.RoleStudent),
		Phone:      "555-0002",
		RollNumber: roll,
		Class:      "BE-CS-A",
	})
	require.NoError(t, err)
	return resp
}

func registrationRequest(email, roll, mentorName string, members ...dto.MemberRequest) *dto.SubmitRegistrationRequest {
	return &dto.SubmitRegistrationRequest{
		Name:         "Asha Verma",
		Email:        email,
		Password:     "s3cret!",
		Phone:        "555-0100",
		RollNumber:   roll,
		Class:        "BE-CS-A",
		ProjectTitle: "Smart Irrigation",
		MentorName:   mentorName,
		Members:      members,
	}
}

func (f *fixture) leader(t *testing.T, mentorName string, members ...dto.MemberRequest) (*dto.AuthResponse, *models.Project) {
	t.Helper()
	ctx := context.Background()
	resp, err := f.registration.SubmitRegistration(ctx, registrationRequest("asha@college.edu", "CS-21-042", mentorName, members...))
	require.NoError(t, err)
	project, err := f.store.Projects().GetByStudent(ctx, resp.ID)
	require.NoError(t, err)
	return resp, project
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(DocumentFileField, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[DocumentFileField][0]
}

func (f *fixture) upload(t *testing.T, actor appauth.Principal, projectID, name string) dto.DocumentResponse {
	t.Helper()
	resp, err := f.documents.Upload(context.Background(), actor, projectID,
		&dto.UploadDocumentForm{Name: name, Description: name + " description"},
		fileHeader(t, "report.pdf", []byte("%PDF-1.4 test")))
	require.NoError(t, err)
	return resp.Document
}
