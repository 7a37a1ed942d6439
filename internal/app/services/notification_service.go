package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/projectdesk/internal/app/auth"
	"github.com/yigit/projectdesk/internal/app/models/dto"
	"github.com/yigit/projectdesk/internal/app/repositories"
	"github.com/yigit/projectdesk/internal/pkg/apperrors"
)

// NotificationService reads persisted notifications on behalf of their recipient
type NotificationService struct {
	store  repositories.Store
	logger zerolog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(store repositories.Store, logger zerolog.Logger) *NotificationService {
	return &NotificationService{store: store, logger: logger}
}

// List returns the actor's notifications, newest first, with sender and project populated
func (s *NotificationService) List(ctx context.Context, actor appauth.Principal) ([]dto.NotificationResponse, error) {
	notifications, err := s.store.Notifications().ListByRecipient(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("error listing notifications: %w", err)
	}

	var senderIDs, projectIDs []string
	for _, n := range notifications {
		senderIDs = append(senderIDs, compactIDs(n.SenderID)...)
		projectIDs = append(projectIDs, compactIDs(n.ProjectID)...)
	}

	senders, err := s.store.Users().GetByIDs(ctx, senderIDs)
	if err != nil {
		return nil, fmt.Errorf("error loading notification senders: %w", err)
	}
	projects, err := s.store.Projects().GetByIDs(ctx, projectIDs)
	if err != nil {
		return nil, fmt.Errorf("error loading notification projects: %w", err)
	}

	out := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, dto.NewNotificationResponse(n, senders[n.SenderID], projects[n.ProjectID]))
	}
	return out, nil
}

// MarkRead flags one of the actor's notifications as read. Repeating it is harmless.
func (s *NotificationService) MarkRead(ctx context.Context, actor appauth.Principal, notificationID string) (*dto.NotificationResponse, error) {
	n, err := s.store.Notifications().GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.RecipientID != actor.UserID {
		return nil, apperrors.NewForbiddenError("Not authorized to update this notification")
	}

	if !n.IsRead {
		if n, err = s.store.Notifications().MarkRead(ctx, n.ID); err != nil {
			return nil, err
		}
	}

	resp, err := populateNotification(ctx, s.store, n)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
