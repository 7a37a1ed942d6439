package dto

import (
	"time"

	"github.com/yigit/projectdesk/internal/app/models"
)

// RegisterRequest creates a student or teacher account without a project
type RegisterRequest struct {
	Name        string `json:"name" binding:"required,notblank" example:"Asha Verma"`
	Email       string `json:"email" binding:"required,email" example:"asha@college.edu"`
	Password    string `json:"password" binding:"required" example:"s3cret!"`
	Role        string `json:"role" binding:"required,oneof=student teacher" example:"student"`
	Phone       string `json:"phone" binding:"required,notblank" example:"555-0100"`
	RollNumber  string `json:"rollNumber" binding:"required_if=Role student" example:"CS-21-042"`
	Class       string `json:"class" binding:"required_if=Role student" example:"BE-CS-A"`
	Designation string `json:"designation" binding:"required_if=Role teacher" example:"Professor"`
	EmployeeID  string `json:"employeeId" binding:"required_if=Role teacher" example:"T-001"`
}

// LoginRequest carries credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"asha@college.edu"`
	Password string `json:"password" binding:"required" example:"s3cret!"`
}

// UpdateProfileRequest changes only the fields that are present and non-empty
type UpdateProfileRequest struct {
	Name  *string `json:"name" example:"Asha V."`
	Phone *string `json:"phone" example:"555-0199"`
}

// UserResponse is the public view of an account
type UserResponse struct {
	ID          string      `json:"id" example:"2f1c6a1e-0d43-4a8e-9d7c-5b8f0e0c4b11"`
	Name        string      `json:"name" example:"Asha Verma"`
	Email       string      `json:"email" example:"asha@college.edu"`
	Role        models.Role `json:"role" example:"student"`
	Phone       string      `json:"phone" example:"555-0100"`
	RollNumber  string      `json:"rollNumber,omitempty" example:"CS-21-042"`
	Class       string      `json:"class,omitempty" example:"BE-CS-A"`
	Designation string      `json:"designation,omitempty"`
	EmployeeID  string      `json:"employeeId,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// AuthResponse is returned by login and both registration flows
type AuthResponse struct {
	UserResponse
	Token     string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresIn int    `json:"expiresIn" example:"2592000"`
}

// NewUserResponse maps a user to its public view
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Phone:       u.Phone,
		RollNumber:  u.RollNumber,
		Class:       u.Class,
		Designation: u.Designation,
		EmployeeID:  u.EmployeeID,
		CreatedAt:   u.CreatedAt,
	}
}
