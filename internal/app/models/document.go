package models

import (
	"strings"
	"time"
)

// DocumentStatus is the review state of an uploaded document
type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusApproved DocumentStatus = "approved"
	DocumentStatusRejected DocumentStatus = "rejected"
)

// IsTerminal reports whether the review has been decided
func (s DocumentStatus) IsTerminal() bool {
	return s == DocumentStatusApproved || s == DocumentStatusRejected
}

// Upper renders the status the way feed entries show it
func (s DocumentStatus) Upper() string {
	return strings.ToUpper(string(s))
}

// ParseDocumentDecision accepts only the two values a reviewer may set
func ParseDocumentDecision(s string) (DocumentStatus, bool) {
	switch DocumentStatus(s) {
	case DocumentStatusApproved, DocumentStatusRejected:
		return DocumentStatus(s), true
	}
	return "", false
}

// Document defines uploaded file metadata based on the 'documents' table / collection
type Document struct {
	ID           string         `json:"id" db:"id" bson:"_id"`
	ProjectID    string         `json:"project" db:"project_id" bson:"project"`
	Name         string         `json:"name" db:"name" bson:"name"`
	Description  string         `json:"description" db:"description" bson:"description"`
	FileName     string         `json:"fileName" db:"file_name" bson:"fileName"` // generated, unique
	FilePath     string         `json:"filePath" db:"file_path" bson:"filePath"`
	FileMimeType string         `json:"fileMimeType" db:"file_mime_type" bson:"fileMimeType"`
	FileSize     int64          `json:"fileSize" db:"file_size" bson:"fileSize"`
	Status       DocumentStatus `json:"status" db:"status" bson:"status"`
	CreatedAt    time.Time      `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}
