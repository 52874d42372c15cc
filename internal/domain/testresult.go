package domain

import (
	"time"

	"github.com/google/uuid"
)

// TestResult is the outcome of grading one TestCase against one submission.
type TestResult struct {
	TestCaseID      string  `json:"testCaseId"`
	Passed          bool    `json:"passed"`
	ActualOutput    string  `json:"actualOutput"`
	ExpectedOutput  string  `json:"expectedOutput"`
	Error           string  `json:"error,omitempty"`
	ExecutionTimeMs float64 `json:"executionTime,omitempty"`
}

// TestSummary counts passing and failing results.
type TestSummary struct {
	Total  int `json:"total"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// GradeReport is a persisted grading run of a submission against a template.
type GradeReport struct {
	ID         uuid.UUID    `json:"id" db:"id"`
	TemplateID string       `json:"templateId" db:"template_id"`
	UserID     string       `json:"userId" db:"user_id"`
	Language   Language     `json:"language" db:"language"`
	Results    []TestResult `json:"results" db:"-"`
	PassRate   int          `json:"passRate" db:"pass_rate"`
	Summary    TestSummary  `json:"summary" db:"-"`
	CreatedAt  time.Time    `json:"createdAt" db:"created_at"`
}

type GradeReportTable struct {
	ID         string
	TemplateID string
	UserID     string
	Language   string
	Results    string
	PassRate   string
	Total      string
	Passed     string
	CreatedAt  string
}

func GetGradeReportTable() GradeReportTable {
	return GradeReportTable{
		ID:         "id",
		TemplateID: "template_id",
		UserID:     "user_id",
		Language:   "language",
		Results:    "results",
		PassRate:   "pass_rate",
		Total:      "total",
		Passed:     "passed",
		CreatedAt:  "created_at",
	}
}

func (GradeReportTable) TableName() string {
	return "grade_reports"
}

// GradeEvent is published after a report has been produced.
type GradeEvent struct {
	ReportID   uuid.UUID `json:"report_id"`
	TemplateID string    `json:"template_id"`
	UserID     string    `json:"user_id"`
	Language   Language  `json:"language"`
	PassRate   int       `json:"pass_rate"`
	Passed     int       `json:"passed"`
	Total      int       `json:"total"`
	CreatedAt  time.Time `json:"created_at"`
}
