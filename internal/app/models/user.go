package models

import (
	"time"
)

// Role is the immutable kind of account
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// User defines the user model based on the 'users' table / collection
type User struct {
	ID           string    `json:"id" db:"id" bson:"_id" example:"2f1c6a1e-0d43-4a8e-9d7c-5b8f0e0c4b11"`
	Name         string    `json:"name" db:"name" bson:"name" example:"Asha Verma"`
	Email        string    `json:"email" db:"email" bson:"email" example:"asha@college.edu"`
	PasswordHash string    `json:"-" db:"password" bson:"password"`
	Role         Role      `json:"role" db:"role" bson:"role" example:"student"`
	Phone        string    `json:"phone" db:"phone" bson:"phone" example:"555-0100"`
	RollNumber   string    `json:"rollNumber,omitempty" db:"roll_number" bson:"rollNumber,omitempty" example:"CS-21-042"` // students only
	Class        string    `json:"class,omitempty" db:"class" bson:"class,omitempty" example:"BE-CS-A"`                   // students only
	Designation  string    `json:"designation,omitempty" db:"designation" bson:"designation,omitempty" example:"Professor"` // teachers only
	EmployeeID   string    `json:"employeeId,omitempty" db:"employee_id" bson:"employeeId,omitempty" example:"T-001"`     // teachers only
	CreatedAt    time.Time `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}

// IsTeacher reports whether the user can mentor projects
func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

// MentorLabel renders "Name (Designation)", or just the name when no designation is set
func (u *User) MentorLabel() string {
	if u.Designation == "" {
		return u.Name
	}
	return u.Name + " (" + u.Designation + ")"
}
