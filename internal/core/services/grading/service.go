package grading

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"gitlab.com/learnhub.net/internal/core/ports/primary"
	"gitlab.com/learnhub.net/internal/core/ports/secondary"
	"gitlab.com/learnhub.net/internal/domain"
	"gitlab.com/learnhub.net/internal/static/errs"
)

const maxReportPage = 50

// Executor runs one piece of code. SandboxService satisfies it.
type Executor interface {
	ExecuteCode(ctx context.Context, code string, language domain.Language) domain.ExecutionResult
}

// IGradingService defines the interface for grading submissions
type IGradingService interface {
	// RunTests runs code once per test case, in order
	RunTests(ctx context.Context, code string, tests []domain.TestCase, language domain.Language) []domain.TestResult

	// Grade runs a submission against its template's test cases and records the report
	Grade(ctx context.Context, submission *domain.Submission) (*domain.GradeReport, error)

	// GetReport retrieves a recorded report by ID
	GetReport(ctx context.Context, id uuid.UUID) (*domain.GradeReport, error)

	// ListReports returns a user's most recent reports
	ListReports(ctx context.Context, userID string, limit int) ([]*domain.GradeReport, error)

	// ListTemplates returns every known code template
	ListTemplates(ctx context.Context) ([]*domain.CodeTemplate, error)

	// GetTemplate retrieves a code template by ID
	GetTemplate(ctx context.Context, id string) (*domain.CodeTemplate, error)
}

var _ IGradingService = (*GradingService)(nil)

// GradingService implements IGradingService
type GradingService struct {
	executor  Executor
	templates secondary.TemplateRepository
	reports   secondary.ReportRepository
	publisher secondary.GradePublisher
	logger    primary.Logger
}

// NewGradingService creates a new grading service. templates, reports and
// publisher may be nil; the matching operations then degrade as documented
// on each method.
func NewGradingService(
	executor Executor,
	templates secondary.TemplateRepository,
	reports secondary.ReportRepository,
	publisher secondary.GradePublisher,
	logger primary.Logger,
) *GradingService {
	return &GradingService{
		executor:  executor,
		templates: templates,
		reports:   reports,
		publisher: publisher,
		logger:    logger,
	}
}

// RunTests grades code against each test case sequentially. A case whose
// run panics fails with the panic message and no output.
func (s *GradingService) RunTests(ctx context.Context, code string, tests []domain.TestCase, language domain.Language) []domain.TestResult {
	results := make([]domain.TestResult, 0, len(tests))
	for _, tc := range tests {
		results = append(results, s.runCase(ctx, code, tc, language))
	}
	return results
}

func (s *GradingService) runCase(ctx context.Context, code string, tc domain.TestCase, language domain.Language) (result domain.TestResult) {
	start := time.Now()
	result = domain.TestResult{
		TestCaseID:     tc.ID,
		ExpectedOutput: tc.ExpectedOutput,
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Test case panicked", "testCase", tc.ID, "panic", r)
			result.Passed = false
			result.ActualOutput = ""
			result.Error = fmt.Sprint(r)
			result.ExecutionTimeMs = domain.Millis(time.Since(start))
		}
	}()

	exec := s.executor.ExecuteCode(ctx, withInput(code, tc.Input, language), language)

	result.ActualOutput = exec.Output
	result.Error = exec.Error
	result.Passed = exec.Error == "" && normalizeOutput(exec.Output) == normalizeOutput(tc.ExpectedOutput)
	result.ExecutionTimeMs = domain.Millis(time.Since(start))
	return result
}

// withInput appends the test input to code behind a comment line.
func withInput(code, input string, language domain.Language) string {
	if input == "" {
		return code
	}
	return code + "\n" + language.CommentPrefix() + " Test input\n" + input
}

// normalizeOutput trims surrounding whitespace and unifies line endings.
func normalizeOutput(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\r\n", "\n")
}

// CalculatePassRate returns the rounded percentage of passing results, 0
// for an empty list.
func CalculatePassRate(results []domain.TestResult) int {
	if len(results) == 0 {
		return 0
	}
	passed := 0
	for _, r := range results {
		if r.Passed {
			passed++
		}
	}
	return int(math.Round(float64(passed) / float64(len(results)) * 100))
}

// Summarize counts passing and failing results.
func Summarize(results []domain.TestResult) domain.TestSummary {
	summary := domain.TestSummary{Total: len(results)}
	for _, r := range results {
		if r.Passed {
			summary.Passed++
		}
	}
	summary.Failed = summary.Total - summary.Passed
	return summary
}

// Grade runs the submission against its template. The report is returned
// even when it could not be stored or announced; those failures are logged.
func (s *GradingService) Grade(ctx context.Context, submission *domain.Submission) (*domain.GradeReport, error) {
	if submission == nil {
		return nil, fmt.Errorf("%w: missing submission", errs.InvalidRequest)
	}
	if s.templates == nil {
		return nil, fmt.Errorf("%w: no template store configured", errs.NotFound)
	}

	tmpl, err := s.templates.GetTemplate(ctx, submission.TemplateID)
	if err != nil {
		s.logger.Error("Failed to get template", "templateId", submission.TemplateID, "error", err)
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	if tmpl == nil {
		return nil, fmt.Errorf("%w: template %s", errs.NotFound, submission.TemplateID)
	}
	if len(tmpl.TestCases) == 0 {
		return nil, fmt.Errorf("%w: template %s has no test cases", errs.InvalidRequest, tmpl.ID)
	}

	results := s.RunTests(ctx, submission.Code, tmpl.TestCases, tmpl.Language)
	report := &domain.GradeReport{
		ID:         submission.ID,
		TemplateID: tmpl.ID,
		UserID:     submission.UserID,
		Language:   tmpl.Language,
		Results:    results,
		PassRate:   CalculatePassRate(results),
		Summary:    Summarize(results),
		CreatedAt:  time.Now().UTC(),
	}

	s.logger.Info("Graded submission",
		"reportId", report.ID,
		"templateId", report.TemplateID,
		"userId", report.UserID,
		"passRate", report.PassRate)

	if s.reports != nil {
		if err := s.reports.SaveReport(ctx, report); err != nil {
			s.logger.Error("Failed to save grade report", "reportId", report.ID, "error", err)
		}
	}

	if s.publisher != nil {
		event := &domain.GradeEvent{
			ReportID:   report.ID,
			TemplateID: report.TemplateID,
			UserID:     report.UserID,
			Language:   report.Language,
			PassRate:   report.PassRate,
			Passed:     report.Summary.Passed,
			Total:      report.Summary.Total,
			CreatedAt:  report.CreatedAt,
		}
		if err := s.publisher.PublishGrade(ctx, event); err != nil {
			s.logger.Error("Failed to publish grade event", "reportId", report.ID, "error", err)
		}
	}

	return report, nil
}

// GetReport retrieves a recorded report by ID
func (s *GradingService) GetReport(ctx context.Context, id uuid.UUID) (*domain.GradeReport, error) {
	if s.reports == nil {
		return nil, fmt.Errorf("%w: no report store configured", errs.NotFound)
	}
	report, err := s.reports.GetReport(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get grade report", "reportId", id, "error", err)
		return nil, fmt.Errorf("failed to get grade report: %w", err)
	}
	if report == nil {
		return nil, fmt.Errorf("%w: report %s", errs.NotFound, id)
	}
	return report, nil
}

// ListReports returns a user's most recent reports, at most limit of them
func (s *GradingService) ListReports(ctx context.Context, userID string, limit int) ([]*domain.GradeReport, error) {
	if s.reports == nil {
		return []*domain.GradeReport{}, nil
	}
	if limit <= 0 || limit > maxReportPage {
		limit = maxReportPage
	}
	reports, err := s.reports.ListReports(ctx, userID, limit)
	if err != nil {
		s.logger.Error("Failed to list grade reports", "userId", userID, "error", err)
		return nil, fmt.Errorf("failed to list grade reports: %w", err)
	}
	return reports, nil
}

// ListTemplates returns every known code template
func (s *GradingService) ListTemplates(ctx context.Context) ([]*domain.CodeTemplate, error) {
	if s.templates == nil {
		return []*domain.CodeTemplate{}, nil
	}
	return s.templates.ListTemplates(ctx)
}

// GetTemplate retrieves a code template by ID
func (s *GradingService) GetTemplate(ctx context.Context, id string) (*domain.CodeTemplate, error) {
	if s.templates == nil {
		return nil, fmt.Errorf("%w: template %s", errs.NotFound, id)
	}
	tmpl, err := s.templates.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, fmt.Errorf("%w: template %s", errs.NotFound, id)
	}
	return tmpl, nil
}
