package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMentorDecision(t *testing.T) {
	tests := []struct {
		in     string
		want   MentorStatus
		wantOK bool
	}{
		{"accepted", MentorStatusAccepted, true},
		{"rejected", MentorStatusRejected, true},
		{"pending", "", false},
		{"ACCEPTED", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseMentorDecision(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDocumentDecision(t *testing.T) {
	got, ok := ParseDocumentDecision("approved")
	assert.True(t, ok)
	assert.Equal(t, DocumentStatusApproved, got)

	_, ok = ParseDocumentDecision("pending")
	assert.False(t, ok)
}

func TestTerminalStatuses(t *testing.T) {
	assert.False(t, MentorStatusPending.IsTerminal())
	assert.True(t, MentorStatusAccepted.IsTerminal())
	assert.True(t, MentorStatusRejected.IsTerminal())

	assert.False(t, DocumentStatusPending.IsTerminal())
	assert.True(t, DocumentStatusApproved.IsTerminal())
	assert.Equal(t, "REJECTED", DocumentStatusRejected.Upper())
}

func TestProjectMembership(t *testing.T) {
	p := &Project{
		StudentID: "leader",
		MentorID:  "mentor",
		Members:   []Member{{Name: "Ravi", Roll: "R2"}, {Name: "Meera", Roll: "R3"}},
	}

	assert.True(t, p.IsLeader("leader"))
	assert.False(t, p.IsLeader("mentor"))
	assert.True(t, p.IsMentor("mentor"))
	assert.False(t, (&Project{}).IsMentor(""))
	assert.True(t, p.HasMemberRoll("R3"))
	assert.False(t, p.HasMemberRoll("R9"))
	assert.False(t, p.HasMemberRoll(""))
}

func TestMentorLabel(t *testing.T) {
	assert.Equal(t, "Dr. Rao (Professor)", (&User{Name: "Dr. Rao", Designation: "Professor"}).MentorLabel())
	assert.Equal(t, "Dr. Rao", (&User{Name: "Dr. Rao"}).MentorLabel())
}
