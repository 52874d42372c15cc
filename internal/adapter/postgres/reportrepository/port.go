package reportrepository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gitlab.com/learnhub.net/internal/core/ports/primary"
	"gitlab.com/learnhub.net/internal/core/ports/secondary"
	"gitlab.com/learnhub.net/internal/domain"
	querybuilder "gitlab.com/learnhub.net/internal/utils"
)

var _ secondary.ReportRepository = &reportRepo{}

type reportRepo struct {
	db     *sqlx.DB
	logger primary.Logger
	schema string
}

// reportRow is a grade_reports row; results are stored as JSON.
type reportRow struct {
	ID         uuid.UUID `db:"id"`
	TemplateID string    `db:"template_id"`
	UserID     string    `db:"user_id"`
	Language   string    `db:"language"`
	Results    []byte    `db:"results"`
	PassRate   int       `db:"pass_rate"`
	Total      int       `db:"total"`
	Passed     int       `db:"passed"`
	CreatedAt  time.Time `db:"created_at"`
}

func New(db *sqlx.DB, logger primary.Logger, schema string) secondary.ReportRepository {
	if schema == "" {
		schema = "public"
	}
	return &reportRepo{
		db:     db,
		logger: logger,
		schema: schema,
	}
}

func columns() []string {
	tbl := domain.GetGradeReportTable()
	return []string{
		tbl.ID, tbl.TemplateID, tbl.UserID, tbl.Language, tbl.Results,
		tbl.PassRate, tbl.Total, tbl.Passed, tbl.CreatedAt,
	}
}

// SaveReport inserts a report. Saving the same report twice is a no-op.
func (r *reportRepo) SaveReport(ctx context.Context, report *domain.GradeReport) error {
	resultsJSON, err := json.Marshal(report.Results)
	if err != nil {
		r.logger.Error("Failed to marshal test results", "error", err)
		return fmt.Errorf("failed to marshal test results: %w", err)
	}

	tbl := domain.GetGradeReportTable()
	query, args, err := querybuilder.NewQueryBuilder(r.schema).
		Insert(columns()...).
		Into(tbl.TableName()).
		Values(
			report.ID, report.TemplateID, report.UserID, report.Language.String(), resultsJSON,
			report.PassRate, report.Summary.Total, report.Summary.Passed, report.CreatedAt,
		).
		OnConflict(tbl.ID).
		DoNothing().
		Build()
	if err != nil {
		return err
	}

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.Error("Failed to save grade report", "reportId", report.ID, "error", err)
		return fmt.Errorf("failed to save grade report: %w", err)
	}
	return nil
}

// GetReport retrieves a report, nil when missing
func (r *reportRepo) GetReport(ctx context.Context, reportID uuid.UUID) (*domain.GradeReport, error) {
	tbl := domain.GetGradeReportTable()
	query, args, err := querybuilder.NewQueryBuilder(r.schema).
		Select(columns()...).
		From(tbl.TableName()).
		Where(tbl.ID+" = ?", reportID).
		Build()
	if err != nil {
		return nil, err
	}

	var row reportRow
	err = r.db.GetContext(ctx, &row, sqlx.Rebind(sqlx.DOLLAR, query), args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get grade report", "reportId", reportID, "error", err)
		return nil, fmt.Errorf("failed to get grade report: %w", err)
	}
	return row.toDomain()
}

// ListReports returns the user's newest reports first
func (r *reportRepo) ListReports(ctx context.Context, userID string, limit int) ([]*domain.GradeReport, error) {
	tbl := domain.GetGradeReportTable()
	query, args, err := querybuilder.NewQueryBuilder(r.schema).
		Select(columns()...).
		From(tbl.TableName()).
		Where(tbl.UserID+" = ?", userID).
		OrderBy(tbl.CreatedAt, false).
		Limit(limit).
		Build()
	if err != nil {
		return nil, err
	}

	var rows []reportRow
	if err := r.db.SelectContext(ctx, &rows, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		r.logger.Error("Failed to list grade reports", "userId", userID, "error", err)
		return nil, fmt.Errorf("failed to list grade reports: %w", err)
	}

	reports := make([]*domain.GradeReport, 0, len(rows))
	for _, row := range rows {
		report, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (row reportRow) toDomain() (*domain.GradeReport, error) {
	var results []domain.TestResult
	if len(row.Results) > 0 {
		if err := json.Unmarshal(row.Results, &results); err != nil {
			return nil, fmt.Errorf("failed to unmarshal test results: %w", err)
		}
	}
	return &domain.GradeReport{
		ID:         row.ID,
		TemplateID: row.TemplateID,
		UserID:     row.UserID,
		Language:   domain.Language(row.Language),
		Results:    results,
		PassRate:   row.PassRate,
		Summary: domain.TestSummary{
			Total:  row.Total,
			Passed: row.Passed,
			Failed: row.Total - row.Passed,
		},
		CreatedAt: row.CreatedAt,
	}, nil
}
