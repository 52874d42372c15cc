// Package mcp exposes the sandbox as MCP tools so an assistant can run and
// grade learner code.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"gitlab.com/learnhub.net/internal/core/services/grading"
	"gitlab.com/learnhub.net/internal/core/services/sandbox"
	"gitlab.com/learnhub.net/internal/domain"
)

const instructions = `LearnHub code sandbox. Use execute_code to run a JavaScript, TypeScript or
Python snippet and read what it printed. Use run_tests to check a snippet
against expected outputs; each test's input is appended to the code before it
runs. The first Python call starts the interpreter and may take a few seconds;
python_status reports its progress.`

// handler holds shared dependencies for all tool handlers.
type handler struct {
	sandbox sandbox.ISandboxService
	grading grading.IGradingService
}

// NewServer creates an MCP server with the sandbox tools registered.
func NewServer(name, version string, sandboxService sandbox.ISandboxService, gradingService grading.IGradingService) *mcp.Server {
	h := &handler{
		sandbox: sandboxService,
		grading: gradingService,
	}

	s := mcp.NewServer(&mcp.Implementation{Name: name, Version: version}, &mcp.ServerOptions{
		Instructions: instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
	})

	mcp.AddTool(s, &mcp.Tool{
		Name:        "execute_code",
		Description: "Run a snippet once and return its captured console output, error and execution time.",
	}, h.executeHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "run_tests",
		Description: `Run a snippet against test cases and report which passed.

Outputs are compared after trimming surrounding whitespace and normalising line endings.`,
	}, h.runTestsHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "python_status",
		Description: "Report whether the Python interpreter is idle, loading, ready or failed.",
	}, h.pythonStatusHandler)

	return s
}

type executeParams struct {
	Code     string `json:"code" jsonschema:"Source code to run."`
	Language string `json:"language" jsonschema:"One of javascript, typescript or python."`
}

func (h *handler) executeHandler(ctx context.Context, req *mcp.CallToolRequest, params executeParams) (*mcp.CallToolResult, any, error) {
	result := h.sandbox.ExecuteCode(ctx, params.Code, domain.Language(params.Language))
	text := formatExecution(result)
	if result.Failed() {
		return errorResult(text)
	}
	return textResult(text)
}

func formatExecution(result domain.ExecutionResult) string {
	var b strings.Builder
	fmt.Fprintln(&b, "Output:")
	if result.Output == "" {
		fmt.Fprintln(&b, "  (none)")
	} else {
		fmt.Fprintln(&b, result.Output)
	}
	if result.Error != "" {
		fmt.Fprintf(&b, "\nError: %s\n", result.Error)
	}
	fmt.Fprintf(&b, "Time: %.2fms\n", result.ExecutionTimeMs)
	return b.String()
}

type testCaseParam struct {
	ID             string `json:"id,omitempty" jsonschema:"Identifier reported back with the result."`
	Name           string `json:"name,omitempty" jsonschema:"Display name."`
	Input          string `json:"input,omitempty" jsonschema:"Code appended to the snippet for this test, e.g. a call that prints."`
	ExpectedOutput string `json:"expected_output" jsonschema:"Output the test expects."`
}

type runTestsParams struct {
	Code      string          `json:"code" jsonschema:"Source code under test."`
	Language  string          `json:"language" jsonschema:"One of javascript, typescript or python."`
	TestCases []testCaseParam `json:"test_cases" jsonschema:"Test cases, run in order."`
}

func (h *handler) runTestsHandler(ctx context.Context, req *mcp.CallToolRequest, params runTestsParams) (*mcp.CallToolResult, any, error) {
	if len(params.TestCases) == 0 {
		return errorResult("test_cases must not be empty")
	}

	tests := make([]domain.TestCase, len(params.TestCases))
	for i, tc := range params.TestCases {
		id := tc.ID
		if id == "" {
			id = fmt.Sprintf("test-%d", i+1)
		}
		tests[i] = domain.TestCase{
			ID:             id,
			Name:           tc.Name,
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
		}
	}

	results := h.grading.RunTests(ctx, params.Code, tests, domain.Language(params.Language))
	return textResult(formatTests(tests, results))
}

func formatTests(tests []domain.TestCase, results []domain.TestResult) string {
	var b strings.Builder
	summary := grading.Summarize(results)
	fmt.Fprintf(&b, "Pass rate: %d%% (%d/%d)\n\n", grading.CalculatePassRate(results), summary.Passed, summary.Total)

	for i, r := range results {
		status := "FAIL"
		if r.Passed {
			status = "PASS"
		}
		fmt.Fprintf(&b, "%s %s\n", status, tests[i].Label(i))
		if r.Passed {
			continue
		}
		if r.Error != "" {
			fmt.Fprintf(&b, "  error: %s\n", r.Error)
		}
		fmt.Fprintf(&b, "  expected: %q\n", r.ExpectedOutput)
		fmt.Fprintf(&b, "  actual:   %q\n", r.ActualOutput)
	}
	return b.String()
}

type pythonStatusParams struct{}

func (h *handler) pythonStatusHandler(ctx context.Context, req *mcp.CallToolRequest, params pythonStatusParams) (*mcp.CallToolResult, any, error) {
	state := h.sandbox.InterpreterState()

	var b strings.Builder
	fmt.Fprintf(&b, "Status: %s\n", state.Status)
	fmt.Fprintf(&b, "Progress: %d%%\n", state.Progress)
	if state.Version != "" {
		fmt.Fprintf(&b, "Version: %s\n", state.Version)
	}
	if state.Error != "" {
		fmt.Fprintf(&b, "Error: %s\n", state.Error)
	}
	return textResult(b.String())
}

// textResult is a helper to build a successful tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
