package mcp

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"gitlab.com/learnhub.net/internal/adapter/logging"
	"gitlab.com/learnhub.net/internal/config"
	"gitlab.com/learnhub.net/internal/core/services/grading"
	"gitlab.com/learnhub.net/internal/core/services/sandbox"
)

func setup(t *testing.T) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	logger := logging.NewNopLogger()
	sandboxService := sandbox.NewSandboxService(&config.SandboxConfig{ExecutionTimeout: time.Second}, nil, logger)
	gradingService := grading.NewGradingService(sandboxService, nil, nil, nil, logger)
	server := NewServer("learnhub-sandbox", "test", sandboxService, gradingService)

	ct, st := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, st, nil)
	if err != nil {
		t.Fatalf("server.Connect: %v", err)
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	if err != nil {
		t.Fatalf("client.Connect: %v", err)
	}

	t.Cleanup(func() {
		_ = cs.Close()
		_ = ss.Wait()
	})
	return cs
}

func callTool(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	return res
}

func resultText(r *mcp.CallToolResult) string {
	var parts []string
	for _, c := range r.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func TestExecuteCode(t *testing.T) {
	cs := setup(t)

	res := callTool(t, cs, "execute_code", map[string]any{
		"code":     "console.log('hi')",
		"language": "javascript",
	})
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}
	if text := resultText(res); !strings.Contains(text, "Output:\nhi\n") {
		t.Errorf("text = %q", text)
	}
}

func TestExecuteCode_Failure(t *testing.T) {
	cs := setup(t)

	res := callTool(t, cs, "execute_code", map[string]any{
		"code":     "puts 1",
		"language": "ruby",
	})
	if !res.IsError {
		t.Error("expected IsError for unsupported language")
	}
	if text := resultText(res); !strings.Contains(text, "unsupported language: ruby") {
		t.Errorf("text = %q", text)
	}
}

func TestRunTests(t *testing.T) {
	cs := setup(t)

	res := callTool(t, cs, "run_tests", map[string]any{
		"code":     "function double(n) { return n * 2 }",
		"language": "javascript",
		"test_cases": []map[string]any{
			{"name": "doubles two", "input": "console.log(double(2))", "expected_output": "4"},
			{"input": "console.log(double(3))", "expected_output": "7"},
		},
	})
	if res.IsError {
		t.Fatalf("unexpected error: %s", resultText(res))
	}

	text := resultText(res)
	for _, want := range []string{"Pass rate: 50% (1/2)", "PASS doubles two", "FAIL Test 2", `actual:   "6"`} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q:\n%s", want, text)
		}
	}
}

func TestRunTests_Empty(t *testing.T) {
	cs := setup(t)

	res := callTool(t, cs, "run_tests", map[string]any{
		"code":       "1",
		"language":   "javascript",
		"test_cases": []map[string]any{},
	})
	if !res.IsError {
		t.Error("expected IsError for empty test_cases")
	}
}

func TestPythonStatus(t *testing.T) {
	cs := setup(t)

	res := callTool(t, cs, "python_status", map[string]any{})
	if text := resultText(res); !strings.Contains(text, "Status: idle") {
		t.Errorf("text = %q", text)
	}
}
