package dto

import (
	"time"

	"github.com/yigit/projectdesk/internal/app/models"
)

// MemberRequest is one roster entry of a registration. Every field is required.
type MemberRequest struct {
	MemberName  string `json:"memberName" binding:"required,notblank" example:"Ravi Kumar"`
	MemberEmail string `json:"memberEmail" binding:"required,email" example:"ravi@college.edu"`
	MemberRoll  string `json:"memberRoll" binding:"required,notblank" example:"CS-21-043"`
	MemberClass string `json:"memberClass" binding:"required,notblank" example:"BE-CS-A"`
	MemberPhone string `json:"memberPhone" binding:"required,notblank" example:"555-0101"`
}

// SubmitRegistrationRequest registers a student together with their project.
// The roster may be omitted.
type SubmitRegistrationRequest struct {
	Name         string          `json:"name" binding:"required,notblank" example:"Asha Verma"`
	Email        string          `json:"email" binding:"required,email" example:"asha@college.edu"`
	Password     string          `json:"password" binding:"required" example:"s3cret!"`
	Phone        string          `json:"phone" binding:"required,notblank" example:"555-0100"`
	RollNumber   string          `json:"rollNumber" binding:"required,notblank" example:"CS-21-042"`
	Class        string          `json:"class" binding:"required,notblank" example:"BE-CS-A"`
	ProjectTitle string          `json:"projectTitle" binding:"required,notblank" example:"Smart Irrigation"`
	MentorName   string          `json:"mentorName" binding:"required,notblank" example:"Dr. Rao"`
	Members      []MemberRequest `json:"members" binding:"omitempty,dive"`
}

// MentorStatusRequest is the mentor's answer to a project request
type MentorStatusRequest struct {
	Status string `json:"status" binding:"required" example:"accepted" enums:"accepted,rejected"`
}

// FinalRemarksRequest sets or replaces the mentor's remark
type FinalRemarksRequest struct {
	FinalRemarks string `json:"finalRemarks" binding:"required" example:"Well documented, good demo."`
}

// DescriptionRequest replaces the project description. An empty string is allowed.
type DescriptionRequest struct {
	Description *string `json:"description" binding:"required" example:"Soil moisture driven drip control."`
}

// PersonSummary is a populated user reference
type PersonSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	RollNumber  string `json:"rollNumber,omitempty"`
	Designation string `json:"designation,omitempty"`
}

// NewPersonSummary returns nil for a nil user
func NewPersonSummary(u *models.User) *PersonSummary {
	if u == nil {
		return nil
	}
	return &PersonSummary{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		RollNumber:  u.RollNumber,
		Designation: u.Designation,
	}
}

// ProjectResponse is a project with its leader and mentor populated
type ProjectResponse struct {
	ID                  string              `json:"id"`
	Title               string              `json:"title" example:"Smart Irrigation"`
	Description         string              `json:"description"`
	Student             *PersonSummary      `json:"student"`
	Members             []models.Member     `json:"members"`
	Mentor              *PersonSummary      `json:"mentor"`
	RequestedMentorName string              `json:"requestedMentorName" example:"Dr. Rao"`
	MentorStatus        models.MentorStatus `json:"mentorStatus" example:"pending"`
	FinalRemarks        string              `json:"finalRemarks"`
	Documents           []DocumentResponse  `json:"documents,omitempty"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

// NewProjectResponse maps a project with optional populated references
func NewProjectResponse(p *models.Project, student, mentor *models.User) ProjectResponse {
	members := p.Members
	if members == nil {
		members = []models.Member{}
	}
	return ProjectResponse{
		ID:                  p.ID,
		Title:               p.Title,
		Description:         p.Description,
		Student:             NewPersonSummary(student),
		Members:             members,
		Mentor:              NewPersonSummary(mentor),
		RequestedMentorName: p.RequestedMentorName,
		MentorStatus:        p.MentorStatus,
		FinalRemarks:        p.FinalRemarks,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

// TeamMember is the dashboard view of a roster entry
type TeamMember struct {
	Name string `json:"name" example:"Ravi Kumar"`
	Roll string `json:"roll" example:"CS-21-043"`
}

// DashboardResponse is the student's view of their led project
type DashboardResponse struct {
	ProjectID      string              `json:"projectId"`
	RegisteredName string              `json:"registeredName" example:"Asha Verma"`
	Title          string              `json:"title" example:"Smart Irrigation"`
	Description    string              `json:"description" example:"No description added yet."`
	MentorName     string              `json:"mentorName" example:"Dr. Rao (Professor)"`
	MentorStatus   models.MentorStatus `json:"mentorStatus" example:"accepted"`
	TeamMembers    []TeamMember        `json:"teamMembers"`
	MentorRemarks  []string            `json:"mentorRemarks"`
	Documents      []DocumentResponse  `json:"documents"`
}

// RemarksResponse is returned after a remark is saved
type RemarksResponse struct {
	Message string          `json:"message" example:"Final remarks added successfully."`
	Project ProjectResponse `json:"project"`
}

// DescriptionResponse is returned after the description changes
type DescriptionResponse struct {
	Message     string `json:"message" example:"Project description updated successfully."`
	Description string `json:"description"`
}

// MentorStatusResponse is returned after a mentor answers a request
type MentorStatusResponse struct {
	Message string          `json:"message" example:"Project request accepted."`
	Project ProjectResponse `json:"project"`
}
