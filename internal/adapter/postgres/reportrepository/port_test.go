package reportrepository

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gitlab.com/learnhub.net/internal/adapter/logging"
	"gitlab.com/learnhub.net/internal/domain"
)

const selectColumns = "SELECT id, template_id, user_id, language, results, pass_rate, total, passed, created_at FROM public.grade_reports"

func newMockRepo(t *testing.T) (*reportRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := New(sqlx.NewDb(db, "postgres"), logging.NewNopLogger(), "").(*reportRepo)
	return repo, mock
}

func sampleReport() *domain.GradeReport {
	return &domain.GradeReport{
		ID:         uuid.MustParse("6f1c2c1e-6c3e-4c59-9d55-7f4a2f0f3a10"),
		TemplateID: "js-hello",
		UserID:     "ada",
		Language:   domain.LanguageJavaScript,
		Results: []domain.TestResult{
			{TestCaseID: "t1", Passed: true, ActualOutput: "hi", ExpectedOutput: "hi"},
			{TestCaseID: "t2", Passed: false, ActualOutput: "hi", ExpectedOutput: "bye"},
		},
		PassRate:  50,
		Summary:   domain.TestSummary{Total: 2, Passed: 1, Failed: 1},
		CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestSaveReport(t *testing.T) {
	repo, mock := newMockRepo(t)
	report := sampleReport()

	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO public.grade_reports (id, template_id, user_id, language, results, pass_rate, total, passed, created_at) " +
			"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) ON CONFLICT (id) DO NOTHING")).
		WithArgs(sqlmock.AnyArg(), "js-hello", "ada", "javascript", sqlmock.AnyArg(), 50, 2, 1, report.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SaveReport(context.Background(), report); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestGetReport(t *testing.T) {
	repo, mock := newMockRepo(t)
	want := sampleReport()
	resultsJSON, _ := json.Marshal(want.Results)

	rows := sqlmock.NewRows([]string{"id", "template_id", "user_id", "language", "results", "pass_rate", "total", "passed", "created_at"}).
		AddRow(want.ID.String(), want.TemplateID, want.UserID, "javascript", resultsJSON, 50, 2, 1, want.CreatedAt)
	mock.ExpectQuery(regexp.QuoteMeta(selectColumns + " WHERE id = $1")).
		WillReturnRows(rows)

	got, err := repo.GetReport(context.Background(), want.ID)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if got.ID != want.ID || got.PassRate != 50 || got.Summary != want.Summary {
		t.Errorf("GetReport() = %+v", got)
	}
	if len(got.Results) != 2 || got.Results[1].ExpectedOutput != "bye" {
		t.Errorf("Results = %+v", got.Results)
	}
}

func TestGetReport_Missing(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectColumns + " WHERE id = $1")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := repo.GetReport(context.Background(), uuid.New())
	if err != nil || got != nil {
		t.Errorf("GetReport() = %v, %v; want nil, nil", got, err)
	}
}

func TestListReports(t *testing.T) {
	repo, mock := newMockRepo(t)
	report := sampleReport()
	resultsJSON, _ := json.Marshal(report.Results)

	rows := sqlmock.NewRows([]string{"id", "template_id", "user_id", "language", "results", "pass_rate", "total", "passed", "created_at"}).
		AddRow(report.ID.String(), report.TemplateID, report.UserID, "javascript", resultsJSON, 50, 2, 1, report.CreatedAt)
	mock.ExpectQuery(regexp.QuoteMeta(selectColumns + " WHERE user_id = $1 ORDER BY created_at DESC LIMIT 10")).
		WithArgs("ada").
		WillReturnRows(rows)

	got, err := repo.ListReports(context.Background(), "ada", 10)
	if err != nil {
		t.Fatalf("ListReports: %v", err)
	}
	if len(got) != 1 || got[0].TemplateID != "js-hello" {
		t.Errorf("ListReports() = %+v", got)
	}
}
