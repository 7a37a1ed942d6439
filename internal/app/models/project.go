package models

import "time"

// MentorStatus is the lifecycle of a mentorship request
type MentorStatus string

const (
	MentorStatusPending  MentorStatus = "pending"
	MentorStatusAccepted MentorStatus = "accepted"
	MentorStatusRejected MentorStatus = "rejected"
)

// IsTerminal reports whether no further transition is allowed
func (s MentorStatus) IsTerminal() bool {
	return s == MentorStatusAccepted || s == MentorStatusRejected
}

// ParseMentorDecision accepts only the two values a mentor may respond with
func ParseMentorDecision(s string) (MentorStatus, bool) {
	switch MentorStatus(s) {
	case MentorStatusAccepted, MentorStatusRejected:
		return MentorStatus(s), true
	}
	return "", false
}

// Member is one entry of a project's team roster. Rosters are fixed at creation.
type Member struct {
	Name  string `json:"memberName" bson:"memberName"`
	Email string `json:"memberEmail" bson:"memberEmail"`
	Roll  string `json:"memberRoll" bson:"memberRoll"`
	Class string `json:"memberClass" bson:"memberClass"`
	Phone string `json:"memberPhone" bson:"memberPhone"`
}

// Project defines a student-led project based on the 'projects' table / collection
type Project struct {
	ID                  string       `json:"id" db:"id" bson:"_id"`
	Title               string       `json:"title" db:"title" bson:"title"`
	Description         string       `json:"description" db:"description" bson:"description"`
	StudentID           string       `json:"student" db:"student_id" bson:"student"`     // leader
	Members             []Member     `json:"members" db:"members" bson:"members"`
	MentorID            string       `json:"mentor,omitempty" db:"mentor_id" bson:"mentor,omitempty"`
	RequestedMentorName string       `json:"requestedMentorName" db:"requested_mentor_name" bson:"requestedMentorName"`
	MentorStatus        MentorStatus `json:"mentorStatus" db:"mentor_status" bson:"mentorStatus"`
	FinalRemarks        string       `json:"finalRemarks" db:"final_remarks" bson:"finalRemarks"`
	CreatedAt           time.Time    `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt           time.Time    `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}

// IsLeader reports whether userID owns the project
func (p *Project) IsLeader(userID string) bool {
	return p.StudentID == userID
}

// IsMentor reports whether userID is the assigned mentor
func (p *Project) IsMentor(userID string) bool {
	return p.MentorID != "" && p.MentorID == userID
}

// HasMemberRoll reports whether a roster entry carries the given roll number
func (p *Project) HasMemberRoll(roll string) bool {
	if roll == "" {
		return false
	}
	for _, m := range p.Members {
		if m.Roll == roll {
			return true
		}
	}
	return false
}
