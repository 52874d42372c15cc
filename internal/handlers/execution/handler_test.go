package execution

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/learnhub.net/internal/adapter/logging"
	"gitlab.com/learnhub.net/internal/config"
	"gitlab.com/learnhub.net/internal/core/services/grading"
	"gitlab.com/learnhub.net/internal/core/services/sandbox"
	"gitlab.com/learnhub.net/internal/domain"
)

func newRouter() *mux.Router {
	logger := logging.NewNopLogger()
	sandboxService := sandbox.NewSandboxService(&config.SandboxConfig{ExecutionTimeout: time.Second}, nil, logger)
	gradingService := grading.NewGradingService(sandboxService, nil, nil, nil, logger)

	r := mux.NewRouter()
	NewHandler(sandboxService, gradingService, logger).RegisterRoutes(r.PathPrefix("/api").Subrouter())
	return r
}

func post(t *testing.T, r http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload)))
	return rec
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name       string
		req        ExecuteRequest
		wantOutput string
		wantError  string
	}{
		{"javascript", ExecuteRequest{Code: "console.log('hi')", Language: domain.LanguageJavaScript}, "hi", ""},
		{"typescript", ExecuteRequest{Code: "let x: number = 1; console.log(x)", Language: domain.LanguageTypeScript}, "1", ""},
		{"thrown error", ExecuteRequest{Code: "throw new Error('boom')", Language: domain.LanguageJavaScript}, "", "boom"},
		{"unsupported language", ExecuteRequest{Code: "puts 1", Language: "ruby"}, "", "unsupported language: ruby"},
	}

	r := newRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, r, "/api/execute", tt.req)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			var got domain.ExecutionResult
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			if got.Output != tt.wantOutput || got.Error != tt.wantError {
				t.Errorf("result = %+v", got)
			}
		})
	}
}

func TestExecute_InvalidBody(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/execute", bytes.NewBufferString("{")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRunTests(t *testing.T) {
	rec := post(t, newRouter(), "/api/tests", RunTestsRequest{
		Code:     "function double(n) { return n * 2 }",
		Language: domain.LanguageJavaScript,
		TestCases: []domain.TestCase{
			{ID: "a", Input: "console.log(double(2))", ExpectedOutput: "4"},
			{ID: "b", Input: "console.log(double(3))", ExpectedOutput: "7"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var got RunTestsResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got.Results) != 2 || !got.Results[0].Passed || got.Results[1].Passed {
		t.Errorf("results = %+v", got.Results)
	}
	if got.PassRate != 50 {
		t.Errorf("passRate = %d, want 50", got.PassRate)
	}
	if got.Summary != (domain.TestSummary{Total: 2, Passed: 1, Failed: 1}) {
		t.Errorf("summary = %+v", got.Summary)
	}
}

func TestRunTests_RequiresCases(t *testing.T) {
	rec := post(t, newRouter(), "/api/tests", RunTestsRequest{Code: "1", Language: domain.LanguageJavaScript})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestPythonRoutesWithoutInterpreter(t *testing.T) {
	r := newRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/python/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var state domain.InterpreterState
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatal(err)
	}
	if state.Status != domain.InterpreterIdle {
		t.Errorf("status = %v, want idle", state.Status)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/python/load", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("load status = %d, want 503", rec.Code)
	}
}
