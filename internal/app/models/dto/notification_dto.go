package dto

import (
	"time"

	"github.com/yigit/projectdesk/internal/app/models"
)

// ProjectRef is a populated project reference
type ProjectRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// NotificationResponse is a persisted notification with sender and project populated
type NotificationResponse struct {
	ID         string                  `json:"id"`
	Recipient  string                  `json:"recipient"`
	Sender     *PersonSummary          `json:"sender"`
	Type       models.NotificationType `json:"type" example:"DOCUMENT_STATUS"`
	Project    *ProjectRef             `json:"project,omitempty"`
	DocumentID string                  `json:"document,omitempty"`
	Message    string                  `json:"message" example:"Your document \"Synopsis\" has been approved."`
	IsRead     bool                    `json:"isRead"`
	CreatedAt  time.Time               `json:"createdAt"`
}

// NewNotificationResponse maps a notification with optional populated references
func NewNotificationResponse(n *models.Notification, sender *models.User, project *models.Project) NotificationResponse {
	resp := NotificationResponse{
		ID:         n.ID,
		Recipient:  n.RecipientID,
		Sender:     NewPersonSummary(sender),
		Type:       n.Type,
		DocumentID: n.DocumentID,
		Message:    n.Message,
		IsRead:     n.IsRead,
		CreatedAt:  n.CreatedAt,
	}
	if sender != nil {
		// only the name is shown for senders
		resp.Sender = &PersonSummary{ID: sender.ID, Name: sender.Name}
	}
	if project != nil {
		resp.Project = &ProjectRef{ID: project.ID, Title: project.Title}
	}
	return resp
}
