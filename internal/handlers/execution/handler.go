package execution

import (
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/learnhub.net/internal/core/ports/primary"
	"gitlab.com/learnhub.net/internal/core/services/grading"
	"gitlab.com/learnhub.net/internal/core/services/sandbox"
	"gitlab.com/learnhub.net/internal/domain"
	"gitlab.com/learnhub.net/internal/handlers"
)

// Handler serves code execution and ad-hoc test runs
type Handler struct {
	sandboxService sandbox.ISandboxService
	gradingService grading.IGradingService
	logger         primary.Logger
}

// NewHandler creates a new execution handler
func NewHandler(sandboxService sandbox.ISandboxService, gradingService grading.IGradingService, logger primary.Logger) *Handler {
	return &Handler{
		sandboxService: sandboxService,
		gradingService: gradingService,
		logger:         logger,
	}
}

// RegisterRoutes registers the execution routes on the /api subrouter
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/execute", h.Execute).Methods("POST")
	router.HandleFunc("/tests", h.RunTests).Methods("POST")
	router.HandleFunc("/python/status", h.PythonStatus).Methods("GET")
	router.HandleFunc("/python/load", h.LoadPython).Methods("POST")
}

// Execute runs code once. Failures of the code itself are reported in the
// result body with status 200.
func (h *Handler) Execute(w http.ResponseWriter, r *http.Request) {
	var req ExecuteRequest
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		handlers.ResponseError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	result := h.sandboxService.ExecuteCode(r.Context(), req.Code, req.Language)
	handlers.ResponseWithJson(w, http.StatusOK, result)
}

// RunTests grades code against the test cases in the request
func (h *Handler) RunTests(w http.ResponseWriter, r *http.Request) {
	var req RunTestsRequest
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		handlers.ResponseError(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if len(req.TestCases) == 0 {
		handlers.ResponseError(w, "testCases must not be empty", http.StatusBadRequest)
		return
	}

	results := h.gradingService.RunTests(r.Context(), req.Code, req.TestCases, req.Language)
	handlers.ResponseWithJson(w, http.StatusOK, RunTestsResponse{
		Results:  results,
		PassRate: grading.CalculatePassRate(results),
		Summary:  grading.Summarize(results),
	})
}

// PythonStatus reports the delegated interpreter's loading state
func (h *Handler) PythonStatus(w http.ResponseWriter, r *http.Request) {
	handlers.ResponseWithJson(w, http.StatusOK, h.sandboxService.InterpreterState())
}

// LoadPython starts the delegated interpreter ahead of the first run
func (h *Handler) LoadPython(w http.ResponseWriter, r *http.Request) {
	if err := h.sandboxService.PreloadInterpreter(r.Context()); err != nil {
		h.logger.Error("Failed to load python", "error", err)
		handlers.ResponseWithJson(w, http.StatusServiceUnavailable, h.sandboxService.InterpreterState())
		return
	}
	handlers.ResponseWithJson(w, http.StatusOK, h.sandboxService.InterpreterState())
}

// ExecuteRequest represents a request to run code
type ExecuteRequest struct {
	Code     string          `json:"code"`
	Language domain.Language `json:"language"`
}

// RunTestsRequest represents a request to grade code against test cases
type RunTestsRequest struct {
	Code      string            `json:"code"`
	Language  domain.Language   `json:"language"`
	TestCases []domain.TestCase `json:"testCases"`
}

// RunTestsResponse carries the graded results
type RunTestsResponse struct {
	Results  []domain.TestResult `json:"results"`
	PassRate int                 `json:"passRate"`
	Summary  domain.TestSummary  `json:"summary"`
}
