package models

import "time"

// NotificationType classifies persisted notification events
type NotificationType string

const (
	NotificationProjectRequest        NotificationType = "PROJECT_REQUEST"
	NotificationMentorRequest         NotificationType = "MENTOR_REQUEST"
	NotificationDocumentStatus        NotificationType = "DOCUMENT_STATUS"
	NotificationMentorRequestResponse NotificationType = "MENTOR_REQUEST_RESPONSE"
	NotificationGeneral               NotificationType = "GENERAL"
)

// Notification is an append-only event addressed to one recipient.
// Only IsRead ever changes after creation.
type Notification struct {
	ID          string           `json:"id" db:"id" bson:"_id"`
	RecipientID string           `json:"recipient" db:"recipient_id" bson:"recipient"`
	SenderID    string           `json:"sender" db:"sender_id" bson:"sender"`
	Type        NotificationType `json:"type" db:"type" bson:"type"`
	ProjectID   string           `json:"project,omitempty" db:"project_id" bson:"project,omitempty"`
	DocumentID  string           `json:"document,omitempty" db:"document_id" bson:"document,omitempty"`
	Message     string           `json:"message" db:"message" bson:"message"`
	IsRead      bool             `json:"isRead" db:"is_read" bson:"isRead"`
	CreatedAt   time.Time        `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}
