// Package storetest holds behaviour every repositories.Store backend must share.
// Each backend's tests call Run with a store of their own.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/projectdesk/internal/app/models"
	"github.com/yigit/projectdesk/internal/app/repositories"
	"github.com/yigit/projectdesk/internal/pkg/apperrors"
)

// Run exercises store. Records are created under fresh IDs so the store may
// be shared with other tests.
func Run(t *testing.T, store repositories.Store) {
	t.Run("mentor status changes once", func(t *testing.T) { testMentorTransition(t, store) })
	t.Run("document status changes once", func(t *testing.T) { testDocumentTransition(t, store) })
	t.Run("failed transaction keeps the status", func(t *testing.T) { testTransitionRollback(t, store) })
	t.Run("duplicate email names the field", func(t *testing.T) { testDuplicateEmail(t, store) })
	t.Run("roster members find their projects", func(t *testing.T) { testListForMember(t, store) })
	t.Run("decided documents newest first", func(t *testing.T) { testDecidedDocuments(t, store) })
	t.Run("mark read is idempotent", func(t *testing.T) { testMarkRead(t, store) })
}

type world struct {
	student *models.User
	mentor  *models.User
	project *models.Project
}

func newUser(role models.Role) *models.User {
	now := models.Now()
	id := models.NewID()
	u := &models.User{
		ID: id, Name: "User " + id[:8], Email: id + "@college.edu", Role: role,
		Phone: "555-0100", CreatedAt: now, UpdatedAt: now,
	}
	if role == models.RoleStudent {
		u.RollNumber, u.Class = "R-"+id, "BE-CS-A"
	} else {
		u.Designation, u.EmployeeID = "Professor", "T-"+id
	}
	return u
}

func seed(t *testing.T, store repositories.Store, members ...models.Member) world {
	t.Helper()
	ctx := context.Background()

	w := world{student: newUser(models.RoleStudent), mentor: newUser(models.RoleTeacher)}
	require.NoError(t, store.Users().Create(ctx, w.student))
	require.NoError(t, store.Users().Create(ctx, w.mentor))

	now := models.Now()
	w.project = &models.Project{
		ID: models.NewID(), Title: "Smart Irrigation", StudentID: w.student.ID, Members: members,
		MentorID: w.mentor.ID, RequestedMentorName: w.mentor.Name, MentorStatus: models.MentorStatusPending,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, store.Projects().Create(ctx, w.project))
	return w
}

func newDocument(projectID string, status models.DocumentStatus, updated time.Time) *models.Document {
	id := models.NewID()
	return &models.Document{
		ID: id, ProjectID: projectID, Name: "Doc " + id[:8], FileName: "documentFile-" + id + ".pdf",
		FilePath: "uploads/documentFile-" + id + ".pdf", FileMimeType: "application/pdf", FileSize: 3,
		Status: status, CreatedAt: updated, UpdatedAt: updated,
	}
}

func testMentorTransition(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	w := seed(t, store)

	p, err := store.Projects().UpdateMentorStatus(ctx, w.project.ID, models.MentorStatusPending, models.MentorStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.MentorStatusAccepted, p.MentorStatus)

	_, err = store.Projects().UpdateMentorStatus(ctx, w.project.ID, models.MentorStatusPending, models.MentorStatusRejected)
	require.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Contains(t, err.Error(), "accepted")

	again, err := store.Projects().GetByID(ctx, w.project.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MentorStatusAccepted, again.MentorStatus)

	_, err = store.Projects().UpdateMentorStatus(ctx, models.NewID(), models.MentorStatusPending, models.MentorStatusRejected)
	assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)
}

func testDocumentTransition(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	w := seed(t, store)
	doc := newDocument(w.project.ID, models.DocumentStatusPending, models.Now())
	require.NoError(t, store.Documents().Create(ctx, doc))

	d, err := store.Documents().UpdateStatus(ctx, doc.ID, models.DocumentStatusPending, models.DocumentStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusRejected, d.Status)

	_, err = store.Documents().UpdateStatus(ctx, doc.ID, models.DocumentStatusPending, models.DocumentStatusApproved)
	require.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Contains(t, err.Error(), "rejected")

	_, err = store.Documents().UpdateStatus(ctx, models.NewID(), models.DocumentStatusPending, models.DocumentStatusApproved)
	assert.ErrorIs(t, err, apperrors.ErrDocumentNotFound)
}

func testTransitionRollback(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	boom := errors.New("notification insert failed")
	w := seed(t, store)

	err := store.WithTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		if _, err := tx.Projects().UpdateMentorStatus(ctx, w.project.ID, models.MentorStatusPending, models.MentorStatusAccepted); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, err := store.Projects().GetByID(ctx, w.project.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MentorStatusPending, p.MentorStatus)
}

func testDuplicateEmail(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	first := newUser(models.RoleStudent)
	require.NoError(t, store.Users().Create(ctx, first))

	second := newUser(models.RoleStudent)
	second.Email = first.Email
	err := store.Users().Create(ctx, second)
	require.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)
	var custom *apperrors.CustomError
	require.ErrorAs(t, err, &custom)
	assert.Equal(t, "email", custom.Field)
}

func testListForMember(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	roll := "R-" + models.NewID()
	led := seed(t, store)
	joined := seed(t, store, models.Member{Name: "Ravi Kumar", Email: "ravi@college.edu", Roll: roll, Class: "BE-CS-A", Phone: "555-0101"})
	seed(t, store)

	projects, err := store.Projects().ListForMember(ctx, led.student.ID, roll)
	require.NoError(t, err)
	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []string{led.project.ID, joined.project.ID}, ids)
}

func testDecidedDocuments(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	w := seed(t, store)

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	var want []string
	for i := 0; i < 7; i++ {
		status := models.DocumentStatusApproved
		if i == 6 {
			status = models.DocumentStatusPending
		}
		doc := newDocument(w.project.ID, status, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, store.Documents().Create(ctx, doc))
		if i >= 1 && i <= 5 {
			want = append([]string{doc.ID}, want...)
		}
	}

	docs, err := store.Documents().ListDecidedByProjects(ctx, []string{w.project.ID}, repositories.RecentDecisionsLimit)
	require.NoError(t, err)
	got := make([]string, 0, len(docs))
	for _, d := range docs {
		got = append(got, d.ID)
	}
	assert.Equal(t, want, got)

	pending, err := store.Documents().ListPendingByProjects(ctx, []string{w.project.ID})
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func testMarkRead(t *testing.T, store repositories.Store) {
	ctx := context.Background()
	w := seed(t, store)

	now := models.Now()
	n := &models.Notification{
		ID: models.NewID(), RecipientID: w.mentor.ID, SenderID: w.student.ID,
		Type: models.NotificationProjectRequest, ProjectID: w.project.ID,
		Message: "New project request", CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, store.Notifications().Create(ctx, n))

	first, err := store.Notifications().MarkRead(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, first.IsRead)

	second, err := store.Notifications().MarkRead(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, second.IsRead)
	assert.True(t, first.UpdatedAt.Equal(second.UpdatedAt))

	inbox, err := store.Notifications().ListByRecipient(ctx, w.mentor.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, n.ID, inbox[0].ID)
}
