package sandbox

import (
	"context"
	"fmt"
	"time"

	"gitlab.com/learnhub.net/internal/domain"
)

// TypeScriptEngine strips types and hands the result to a JavaScript engine.
type TypeScriptEngine struct {
	js *JavaScriptEngine
}

// NewTypeScriptEngine creates an engine that strips types and runs the
// result on js.
func NewTypeScriptEngine(js *JavaScriptEngine) *TypeScriptEngine {
	return &TypeScriptEngine{js: js}
}

// Language reports typescript.
func (e *TypeScriptEngine) Language() domain.Language {
	return domain.LanguageTypeScript
}

// Execute reports the elapsed time of transform and run together.
func (e *TypeScriptEngine) Execute(ctx context.Context, code string) domain.ExecutionResult {
	start := time.Now()

	js, err := StripTypes(code)
	if err != nil {
		return domain.ExecutionResult{
			Output:          "",
			Error:           fmt.Sprintf(compileErrorMessage, err),
			ExecutionTimeMs: domain.Millis(time.Since(start)),
		}
	}

	result := e.js.Execute(ctx, js)
	result.ExecutionTimeMs = domain.Millis(time.Since(start))
	return result
}
