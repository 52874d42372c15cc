package sandbox

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestJavaScriptEngine_Execute(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		wantOutput string
		wantError  string
	}{
		{
			name:       "console log",
			code:       "console.log('hi')",
			wantOutput: "hi",
		},
		{
			name:      "thrown error reports message",
			code:      "throw new Error('boom')",
			wantError: "boom",
		},
		{
			name:       "partial output kept on throw",
			code:       "console.log('before'); throw new Error('after')",
			wantOutput: "before",
			wantError:  "after",
		},
		{
			name:      "thrown non-error value",
			code:      "throw 'plain'",
			wantError: "plain",
		},
		{
			name:       "multiple arguments join with a space",
			code:       "console.log('a', 1, true, null, undefined)",
			wantOutput: "a 1 true null undefined",
		},
		{
			name:       "all console channels captured in order",
			code:       "console.log('l'); console.info('i'); console.warn('w'); console.error('e')",
			wantOutput: "l\ni\nw\ne",
		},
		{
			name:       "objects are pretty printed",
			code:       "console.log({a: 1, b: [2]})",
			wantOutput: "{\n  \"a\": 1,\n  \"b\": [\n    2\n  ]\n}",
		},
		{
			name:       "cyclic objects fall back to String",
			code:       "const o = {}; o.self = o; console.log(o)",
			wantOutput: "[object Object]",
		},
		{
			name:       "top-level return",
			code:       "console.log('a'); return; console.log('b')",
			wantOutput: "a",
		},
		{
			name:       "no output",
			code:       "const x = 1 + 1",
			wantOutput: "",
		},
	}

	engine := NewJavaScriptEngine(time.Second)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Execute(context.Background(), tt.code)
			if got.Output != tt.wantOutput {
				t.Errorf("Output = %q, want %q", got.Output, tt.wantOutput)
			}
			if got.Error != tt.wantError {
				t.Errorf("Error = %q, want %q", got.Error, tt.wantError)
			}
			if got.ExecutionTimeMs < 0 {
				t.Errorf("ExecutionTimeMs = %v", got.ExecutionTimeMs)
			}
		})
	}
}

func TestJavaScriptEngine_ReferenceError(t *testing.T) {
	got := NewJavaScriptEngine(time.Second).Execute(context.Background(), "missing()")
	if !strings.Contains(got.Error, "not defined") {
		t.Errorf("Error = %q", got.Error)
	}
}

func TestJavaScriptEngine_SyntaxError(t *testing.T) {
	got := NewJavaScriptEngine(time.Second).Execute(context.Background(), "let = ;")
	if got.Error == "" {
		t.Fatal("expected a syntax error")
	}
	if got.Output != "" {
		t.Errorf("Output = %q, want empty", got.Output)
	}
}

func TestJavaScriptEngine_FunctionArgument(t *testing.T) {
	got := NewJavaScriptEngine(time.Second).Execute(context.Background(), "console.log(function greet() { return 1 })")
	if !strings.Contains(got.Output, "greet") {
		t.Errorf("Output = %q, want function source", got.Output)
	}
}

func TestJavaScriptEngine_Timeout(t *testing.T) {
	timeout := 100 * time.Millisecond
	engine := NewJavaScriptEngine(timeout)

	start := time.Now()
	got := engine.Execute(context.Background(), "console.log('start'); while (true) {}")
	elapsed := time.Since(start)

	if got.Output != "start" {
		t.Errorf("Output = %q, want partial output", got.Output)
	}
	if want := "execution timed out (exceeded 100ms)"; got.Error != want {
		t.Errorf("Error = %q, want %q", got.Error, want)
	}
	if got.ExecutionTimeMs != 100 {
		t.Errorf("ExecutionTimeMs = %v, want exactly 100", got.ExecutionTimeMs)
	}
	if elapsed > 2*time.Second {
		t.Errorf("Execute returned after %v", elapsed)
	}
}

func TestJavaScriptEngine_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	got := NewJavaScriptEngine(5*time.Second).Execute(ctx, "while (true) {}")
	if !strings.HasPrefix(got.Error, "execution cancelled") {
		t.Errorf("Error = %q", got.Error)
	}
}

func TestJavaScriptEngine_RunsAreIsolated(t *testing.T) {
	engine := NewJavaScriptEngine(time.Second)

	first := engine.Execute(context.Background(), "globalThis.leak = 1; var shared = 2")
	if first.Error != "" {
		t.Fatalf("first run: %s", first.Error)
	}
	second := engine.Execute(context.Background(), "console.log(typeof leak, typeof shared)")
	if second.Output != "undefined undefined" {
		t.Errorf("Output = %q, want no state from the previous run", second.Output)
	}
}

func TestJavaScriptEngine_Idempotent(t *testing.T) {
	engine := NewJavaScriptEngine(time.Second)
	code := "for (let i = 0; i < 3; i++) console.log(i)"

	a := engine.Execute(context.Background(), code)
	b := engine.Execute(context.Background(), code)
	if a.Output != b.Output || a.Error != b.Error {
		t.Errorf("runs differ: %+v vs %+v", a, b)
	}
	if a.Output != "0\n1\n2" {
		t.Errorf("Output = %q", a.Output)
	}
}

func TestJavaScriptEngine_DefaultTimeout(t *testing.T) {
	if got := NewJavaScriptEngine(0).timeout; got != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", got, DefaultTimeout)
	}
}
