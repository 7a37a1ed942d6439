package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/projectdesk/internal/app/models"
	"github.com/yigit/projectdesk/internal/app/repositories"
	"github.com/yigit/projectdesk/internal/app/repositories/storetest"
	"github.com/yigit/projectdesk/internal/pkg/apperrors"
)

func newUser(id, email, roll string, role models.Role) *models.User {
	now := models.Now()
	return &models.User{ID: id, Name: "User " + id, Email: email, Role: role, RollNumber: roll, CreatedAt: now, UpdatedAt: now}
}

func TestStore(t *testing.T) {
	storetest.Run(t, NewStore())
}

func TestUserUniqueness(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	users := store.Users()

	require.NoError(t, users.Create(ctx, newUser("u1", "a@x.edu", "R1", models.RoleStudent)))

	tests := []struct {
		name  string
		user  *models.User
		field string
	}{
		{"same email", newUser("u2", "a@x.edu", "R2", models.RoleStudent), "email"},
		{"same roll", newUser("u3", "b@x.edu", "R1", models.RoleStudent), "rollNumber"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := users.Create(ctx, tt.user)
			require.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)
			var custom *apperrors.CustomError
			require.True(t, errors.As(err, &custom))
			assert.Equal(t, tt.field, custom.Field)
		})
	}

	// empty roll numbers never collide
	require.NoError(t, users.Create(ctx, newUser("t1", "t1@x.edu", "", models.RoleTeacher)))
	require.NoError(t, users.Create(ctx, newUser("t2", "t2@x.edu", "", models.RoleTeacher)))
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	store := NewStore()

	err := store.WithTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		require.NoError(t, tx.Users().Create(ctx, newUser("u1", "a@x.edu", "R1", models.RoleStudent)))
		_, err := tx.Users().GetByID(ctx, "u1")
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.Users().GetByID(ctx, "u1")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestInsertHookAbortsTransaction(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("insert failed")
	store := NewStore(WithInsertHook(func(entity string) error {
		if entity == EntityProject {
			return boom
		}
		return nil
	}))

	err := store.WithTransaction(ctx, func(ctx context.Context, tx repositories.Store) error {
		if err := tx.Users().Create(ctx, newUser("u1", "a@x.edu", "R1", models.RoleStudent)); err != nil {
			return err
		}
		return tx.Projects().Create(ctx, &models.Project{ID: "p1", StudentID: "u1"})
	})
	require.ErrorIs(t, err, boom)

	all, err := store.Users().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestConditionalStatusUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.Projects().Create(ctx, &models.Project{
		ID: "p1", StudentID: "s1", MentorID: "m1", MentorStatus: models.MentorStatusPending,
	}))

	p, err := store.Projects().UpdateMentorStatus(ctx, "p1", models.MentorStatusPending, models.MentorStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.MentorStatusAccepted, p.MentorStatus)

	_, err = store.Projects().UpdateMentorStatus(ctx, "p1", models.MentorStatusPending, models.MentorStatusRejected)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = store.Projects().UpdateMentorStatus(ctx, "missing", models.MentorStatusPending, models.MentorStatusRejected)
	assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)
}

func TestDecidedDocumentsOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.Projects().Create(ctx, &models.Project{ID: "p1", StudentID: "s1"}))

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"d1", "d2", "d3", "d4", "d5", "d6", "d7"} {
		status := models.DocumentStatusApproved
		if i == 6 {
			status = models.DocumentStatusPending
		}
		require.NoError(t, store.Documents().Create(ctx, &models.Document{
			ID: id, ProjectID: "p1", FileName: id + ".pdf", Status: status,
			CreatedAt: base, UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	docs, err := store.Documents().ListDecidedByProjects(ctx, []string{"p1"}, repositories.RecentDecisionsLimit)
	require.NoError(t, err)
	require.Len(t, docs, 5)
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []string{"d6", "d5", "d4", "d3", "d2"}, ids)

	pending, err := store.Documents().ListPendingByProjects(ctx, []string{"p1"})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "d7", pending[0].ID)
}

func TestListForMember(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.Projects().Create(ctx, &models.Project{ID: "p1", StudentID: "s1"}))
	require.NoError(t, store.Projects().Create(ctx, &models.Project{
		ID: "p2", StudentID: "s2", Members: []models.Member{{Name: "Me", Roll: "R9"}},
	}))
	require.NoError(t, store.Projects().Create(ctx, &models.Project{ID: "p3", StudentID: "s3"}))

	projects, err := store.Projects().ListForMember(ctx, "s1", "R9")
	require.NoError(t, err)
	require.Len(t, projects, 2)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	require.NoError(t, store.Projects().Create(ctx, &models.Project{
		ID: "p1", StudentID: "s1", Members: []models.Member{{Name: "A", Roll: "R1"}},
	}))

	p, err := store.Projects().GetByID(ctx, "p1")
	require.NoError(t, err)
	p.Members[0].Roll = "changed"

	again, err := store.Projects().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "R1", again.Members[0].Roll)
}
