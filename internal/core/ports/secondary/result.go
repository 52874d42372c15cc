package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/learnhub.net/internal/domain"
)

// ReportRepository defines the interface for storing and retrieving grade reports
type ReportRepository interface {
	// SaveReport saves a grade report
	SaveReport(ctx context.Context, report *domain.GradeReport) error

	// GetReport retrieves a grade report by ID, nil when missing
	GetReport(ctx context.Context, reportID uuid.UUID) (*domain.GradeReport, error)

	// ListReports returns a user's most recent reports, newest first
	ListReports(ctx context.Context, userID string, limit int) ([]*domain.GradeReport, error)
}

// GradePublisher announces finished grade reports to other services.
type GradePublisher interface {
	PublishGrade(ctx context.Context, event *domain.GradeEvent) error
}
