package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/projectdesk/internal/app/models"
	"github.com/yigit/projectdesk/internal/app/models/dto"
	"github.com/yigit/projectdesk/internal/app/repositories"
	"github.com/yigit/projectdesk/internal/pkg/email"
)

// MessageTypeNotification is the websocket envelope type of a pushed notification
const MessageTypeNotification = "notification"

// Publisher delivers persisted notifications outside the originating request.
// Delivery is advisory: failures are logged by the publisher and never returned.
type Publisher interface {
	Publish(ctx context.Context, notifications ...*models.Notification)
}

// UserPusher sends a payload to every live session of a user
type UserPusher interface {
	PushToUser(userID, msgType string, data interface{}) error
}

// NopPublisher discards notifications
type NopPublisher struct{}

// Publish implements Publisher
func (NopPublisher) Publish(context.Context, ...*models.Notification) {}

// MultiPublisher fans out to several publishers in order
type MultiPublisher []Publisher

// Publish implements Publisher
func (m MultiPublisher) Publish(ctx context.Context, notifications ...*models.Notification) {
	for _, p := range m {
		p.Publish(ctx, notifications...)
	}
}

// PushPublisher forwards notifications to live websocket sessions
type PushPublisher struct {
	pusher UserPusher
	store  repositories.Store
	logger zerolog.Logger
}

// NewPushPublisher creates a publisher backed by the websocket hub
func NewPushPublisher(pusher UserPusher, store repositories.Store, logger zerolog.Logger) *PushPublisher {
	return &PushPublisher{pusher: pusher, store: store, logger: logger}
}

// Publish implements Publisher
func (p *PushPublisher) Publish(ctx context.Context, notifications ...*models.Notification) {
	for _, n := range notifications {
		payload, err := populateNotification(ctx, p.store, n)
		if err != nil {
			p.logger.Warn().Err(err).Str("notificationID", n.ID).Msg("Failed to populate pushed notification")
			payload = dto.NewNotificationResponse(n, nil, nil)
		}
		if err := p.pusher.PushToUser(n.RecipientID, MessageTypeNotification, payload); err != nil {
			p.logger.Warn().Err(err).Str("recipientID", n.RecipientID).Msg("Failed to push notification")
		}
	}
}

// MailPublisher emails notifications to their recipients
type MailPublisher struct {
	mailer email.EmailService
	users  repositories.UserRepository
	logger zerolog.Logger
}

// NewMailPublisher creates a publisher backed by the mailer
func NewMailPublisher(mailer email.EmailService, users repositories.UserRepository, logger zerolog.Logger) *MailPublisher {
	return &MailPublisher{mailer: mailer, users: users, logger: logger}
}

// Publish implements Publisher
func (p *MailPublisher) Publish(ctx context.Context, notifications ...*models.Notification) {
	for _, n := range notifications {
		recipient, err := p.users.GetByID(ctx, n.RecipientID)
		if err != nil {
			p.logger.Warn().Err(err).Str("recipientID", n.RecipientID).Msg("Failed to load notification recipient")
			continue
		}
		if err := p.mailer.SendNotificationEmail(recipient.Email, recipient.Name, mailSubject(n.Type), n.Message); err != nil {
			p.logger.Warn().Err(err).Str("recipientID", n.RecipientID).Msg("Failed to email notification")
		}
	}
}

func mailSubject(t models.NotificationType) string {
	switch t {
	case models.NotificationProjectRequest:
		return "New project request"
	case models.NotificationMentorRequestResponse:
		return "Mentor request update"
	case models.NotificationDocumentStatus:
		return "Document review update"
	default:
		return "Project notification"
	}
}

// populateNotification resolves the sender and project of one notification
func populateNotification(ctx context.Context, store repositories.Store, n *models.Notification) (dto.NotificationResponse, error) {
	var sender *models.User
	var project *models.Project
	if n.SenderID != "" {
		users, err := store.Users().GetByIDs(ctx, []string{n.SenderID})
		if err != nil {
			return dto.NotificationResponse{}, fmt.Errorf("error loading sender: %w", err)
		}
		sender = users[n.SenderID]
	}
	if n.ProjectID != "" {
		projects, err := store.Projects().GetByIDs(ctx, []string{n.ProjectID})
		if err != nil {
			return dto.NotificationResponse{}, fmt.Errorf("error loading project: %w", err)
		}
		project = projects[n.ProjectID]
	}
	return dto.NewNotificationResponse(n, sender, project), nil
}
