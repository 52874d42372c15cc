package sandbox

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gitlab.com/learnhub.net/internal/core/ports/secondary"
	"gitlab.com/learnhub.net/internal/domain"
)

// PythonEngine runs code in the shared delegated interpreter.
//
// Module-level state set by one run is visible to the next: the interpreter
// is a process-wide singleton and its namespace is never cleared.
type PythonEngine struct {
	loader  secondary.InterpreterLoader
	timeout time.Duration
}

// NewPythonEngine creates an engine that runs code on the interpreter from
// loader and gives up after timeout.
func NewPythonEngine(loader secondary.InterpreterLoader, timeout time.Duration) *PythonEngine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &PythonEngine{loader: loader, timeout: timeout}
}

// Language reports python.
func (e *PythonEngine) Language() domain.Language {
	return domain.LanguagePython
}

// Execute keeps the output streamed before a timeout or cancellation.
func (e *PythonEngine) Execute(ctx context.Context, code string) domain.ExecutionResult {
	start := time.Now()

	if e.loader == nil {
		return domain.ExecutionResult{
			Error:           fmt.Sprintf(environmentMessage, "no interpreter configured"),
			ExecutionTimeMs: domain.Millis(time.Since(start)),
		}
	}

	interp, err := e.loader.Load(ctx)
	if err != nil {
		return domain.ExecutionResult{
			Error:           fmt.Sprintf(environmentMessage, err),
			ExecutionTimeMs: domain.Millis(time.Since(start)),
		}
	}

	runCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	outcome, err := interp.Run(runCtx, code)
	if err != nil {
		switch {
		case errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
			return timeoutResult(trimOutput(outcome.Output), e.timeout)
		case ctx.Err() != nil:
			return domain.ExecutionResult{
				Output:          trimOutput(outcome.Output),
				Error:           fmt.Sprintf(cancelledMessage, ctx.Err()),
				ExecutionTimeMs: domain.Millis(time.Since(start)),
			}
		default:
			return domain.ExecutionResult{
				Output:          trimOutput(outcome.Output),
				Error:           fmt.Sprintf(environmentMessage, err),
				ExecutionTimeMs: domain.Millis(time.Since(start)),
			}
		}
	}

	result := domain.ExecutionResult{
		Output:          trimOutput(outcome.Output),
		Error:           outcome.Error,
		ExecutionTimeMs: domain.Millis(time.Since(start)),
	}
	if result.Output == "" && outcome.Value != nil {
		result.Output = *outcome.Value
	}
	return result
}

// trimOutput drops the newline print() leaves after the last line.
func trimOutput(out string) string {
	return strings.TrimSuffix(out, "\n")
}
