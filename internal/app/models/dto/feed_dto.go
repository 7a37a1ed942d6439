package dto

// Feed entry types
const (
	FeedTypeDocumentApproval = "DOCUMENT_APPROVAL"
	FeedTypeDocumentStatus   = "DOCUMENT_STATUS"
)

// FeedDocument is the document summary shown in a feed entry
type FeedDocument struct {
	ID         string `json:"id"`
	Name       string `json:"name" example:"Synopsis"`
	ShortDesc  string `json:"shortDesc"`
	UploadedOn string `json:"uploadedOn" example:"2024-03-01"`
}

// FeedItem is a notification-shaped view computed at read time. It is never stored.
type FeedItem struct {
	ID          string       `json:"id"`
	ProjectID   string       `json:"projectId"`
	TeacherName string       `json:"teacherName" example:"Dr. Rao"`
	StudentName string       `json:"studentName" example:"Asha Verma"`
	Status      string       `json:"status" example:"PENDING" enums:"PENDING,APPROVED,REJECTED"`
	Document    FeedDocument `json:"document"`
	Message     string       `json:"message" example:"New file submitted by Asha Verma for Project: Smart Irrigation. Requires review."`
	Type        string       `json:"type" example:"DOCUMENT_APPROVAL" enums:"DOCUMENT_APPROVAL,DOCUMENT_STATUS"`
}

// AssignmentsResponse is the role-dependent aggregate view
type AssignmentsResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Requests []FeedItem        `json:"requests"`
}
