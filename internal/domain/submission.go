package domain

import (
	"time"

	"github.com/google/uuid"
)

// Submission is user code handed in for grading against a template.
type Submission struct {
	ID          uuid.UUID
	UserID      string
	Code        string
	TemplateID  string
	SubmittedAt time.Time
}

// NewSubmission creates a new submission
func NewSubmission(userID, code, templateID string) *Submission {
	return &Submission{
		ID:          uuid.New(),
		UserID:      userID,
		Code:        code,
		TemplateID:  templateID,
		SubmittedAt: time.Now(),
	}
}
