package domain

import "github.com/google/uuid"

// VoteValue is an up or down vote on a report.
type VoteValue string

const (
	VoteUp   VoteValue = "up"
	VoteDown VoteValue = "down"
)

func (v VoteValue) IsValid() bool {
	return v == VoteUp || v == VoteDown
}

// Vote records a single user's vote on a single report. At most one vote
// exists per (user, report) pair.
type Vote struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ReportID  uuid.UUID `json:"report_id"`
	VoteValue VoteValue `json:"vote_value"`
}
