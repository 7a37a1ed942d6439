package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/projectdesk/internal/app/models"
	"github.com/yigit/projectdesk/internal/app/models/dto"
	"github.com/yigit/projectdesk/internal/pkg/apperrors"
)

func TestNotificationListAndMarkRead(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	mentor := principalOf(f.teacher(t, "Dr. Rao", "rao@college.edu", "T-001"))
	leader, project := f.leader(t, "Dr. Rao")
	doc := f.upload(t, principalOf(leader), project.ID, "Synopsis")

	_, err := f.projects.RespondToMentorRequest(ctx, mentor, project.ID, "accepted")
	require.NoError(t, err)
	_, err = f.documents.Review(ctx, mentor, doc.ID, "approved")
	require.NoError(t, err)

	list, err := f.notifications.List(ctx, principalOf(leader))
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, n := range list {
		assert.Equal(t, leader.ID, n.Recipient)
		require.NotNil(t, n.Sender)
		assert.Equal(t, "Dr. Rao", n.Sender.Name)
		assert.Empty(t, n.Sender.Email)
		require.NotNil(t, n.Project)
		assert.Equal(t, "Smart Irrigation", n.Project.Title)
	}
	assert.False(t, list[0].CreatedAt.Before(list[1].CreatedAt))

	target := list[0].ID

	t.Run("only the recipient", func(t *testing.T) {
		_, err := f.notifications.MarkRead(ctx, mentor, target)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("missing notification", func(t *testing.T) {
		_, err := f.notifications.MarkRead(ctx, principalOf(leader), "missing")
		assert.ErrorIs(t, err, apperrors.ErrNotificationNotFound)
	})

	t.Run("idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			resp, err := f.notifications.MarkRead(ctx, principalOf(leader), target)
			require.NoError(t, err)
			assert.True(t, resp.IsRead)
		}
		stored, err := f.store.Notifications().GetByID(ctx, target)
		require.NoError(t, err)
		assert.True(t, stored.IsRead)
	})

	t.Run("mentor inbox", func(t *testing.T) {
		list, err := f.notifications.List(ctx, mentor)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, models.NotificationProjectRequest, list[0].Type)
		assert.Equal(t, "Asha Verma", list[0].Sender.Name)
	})
}

type fakePusher struct {
	pushed map[string][]interface{}
	err    error
}

func (p *fakePusher) PushToUser(userID, msgType string, data interface{}) error {
	if p.pushed == nil {
		p.pushed = map[string][]interface{}{}
	}
	p.pushed[userID+"/"+msgType] = append(p.pushed[userID+"/"+msgType], data)
	return p.err
}

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) SendNotificationEmail(toEmail, _, subject, _ string) error {
	m.sent = append(m.sent, toEmail+"|"+subject)
	return m.err
}

func TestPublishers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	mentor := f.teacher(t, "Dr. Rao", "rao@college.edu", "T-001")
	leader, project := f.leader(t, "Dr. Rao")

	n := newNotification(mentor.ID, leader.ID, models.NotificationProjectRequest, project.ID, "", "hello")
	require.NoError(t, f.store.Notifications().Create(ctx, n))

	pusher := &fakePusher{err: errors.New("no live session")}
	mailer := &fakeMailer{err: errors.New("smtp down")}
	publisher := MultiPublisher{
		NewPushPublisher(pusher, f.store, zerolog.Nop()),
		NewMailPublisher(mailer, f.store.Users(), zerolog.Nop()),
		NopPublisher{},
	}

	publisher.Publish(ctx, n)

	pushed := pusher.pushed[mentor.ID+"/"+MessageTypeNotification]
	require.Len(t, pushed, 1)
	payload, ok := pushed[0].(dto.NotificationResponse)
	require.True(t, ok)
	assert.Equal(t, "Asha Verma", payload.Sender.Name)
	assert.Equal(t, "Smart Irrigation", payload.Project.Title)

	assert.Equal(t, []string{"rao@college.edu|New project request"}, mailer.sent)

	t.Run("unknown recipient is skipped", func(t *testing.T) {
		orphan := newNotification("missing", "", models.NotificationGeneral, "", "", "hi")
		publisher.Publish(ctx, orphan)
		assert.Len(t, mailer.sent, 1)
		assert.Len(t, pusher.pushed["missing/"+MessageTypeNotification], 1)
	})
}
