package dto

import (
	"time"

	"github.com/yigit/projectdesk/internal/app/models"
)

// DocumentStatusRequest is the reviewer's decision
type DocumentStatusRequest struct {
	Status string `json:"status" binding:"required" example:"approved" enums:"approved,rejected"`
}

// UploadDocumentForm holds the text parts of a document upload
type UploadDocumentForm struct {
	Name        string `form:"name" binding:"required"`
	Description string `form:"description"`
}

// DocumentResponse is the public view of document metadata
type DocumentResponse struct {
	ID           string                `json:"id"`
	ProjectID    string                `json:"project"`
	Name         string                `json:"name" example:"Synopsis"`
	Description  string                `json:"description"`
	FileName     string                `json:"fileName" example:"documentFile-1700000000123-482913571.pdf"`
	FileMimeType string                `json:"fileMimeType" example:"application/pdf"`
	FileSize     int64                 `json:"fileSize" example:"48213"`
	Status       models.DocumentStatus `json:"status" example:"pending"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

// NewDocumentResponse maps document metadata. The server-side path is not exposed.
func NewDocumentResponse(d *models.Document) DocumentResponse {
	return DocumentResponse{
		ID:           d.ID,
		ProjectID:    d.ProjectID,
		Name:         d.Name,
		Description:  d.Description,
		FileName:     d.FileName,
		FileMimeType: d.FileMimeType,
		FileSize:     d.FileSize,
		Status:       d.Status,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// NewDocumentResponses maps a slice, never returning nil
func NewDocumentResponses(docs []*models.Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, NewDocumentResponse(d))
	}
	return out
}

// UploadDocumentResponse is returned after an upload
type UploadDocumentResponse struct {
	Message  string           `json:"message" example:"Document uploaded successfully."`
	Document DocumentResponse `json:"document"`
}

// DocumentStatusResponse is returned after a review
type DocumentStatusResponse struct {
	Message  string           `json:"message" example:"Document approved."`
	Document DocumentResponse `json:"document"`
}
