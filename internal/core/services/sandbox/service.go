package sandbox

import (
	"context"
	"fmt"
	"time"

	"gitlab.com/learnhub.net/internal/config"
	"gitlab.com/learnhub.net/internal/core/ports/primary"
	"gitlab.com/learnhub.net/internal/core/ports/secondary"
	"gitlab.com/learnhub.net/internal/domain"
)

// DefaultTimeout bounds how long a caller waits for one execution.
const DefaultTimeout = 5 * time.Second

const (
	timeoutMessage       = "execution timed out (exceeded %s)"
	compileErrorMessage  = "TypeScript compile error: %s"
	environmentMessage   = "Python environment unavailable: %s"
	unsupportedMessage   = "unsupported language: %s"
	cancelledMessage     = "execution cancelled: %s"
	internalErrorMessage = "internal sandbox error: %v"
)

// Engine runs code of a single language. Execute never panics and never
// returns an error: every failure is reported in the result.
type Engine interface {
	Language() domain.Language
	Execute(ctx context.Context, code string) domain.ExecutionResult
}

// ISandboxService defines the interface for running user code
type ISandboxService interface {
	// ExecuteCode dispatches code to the engine of the given language.
	ExecuteCode(ctx context.Context, code string, language domain.Language) domain.ExecutionResult

	// InterpreterState reports the delegated interpreter's loading progress.
	InterpreterState() domain.InterpreterState

	// PreloadInterpreter starts the delegated interpreter ahead of the first run.
	PreloadInterpreter(ctx context.Context) error
}

var _ ISandboxService = (*SandboxService)(nil)

// SandboxService dispatches executions to the three language engines.
type SandboxService struct {
	engines map[domain.Language]Engine
	loader  secondary.InterpreterLoader
	logger  primary.Logger
}

// NewSandboxService wires the JavaScript, TypeScript and Python engines.
func NewSandboxService(cfg *config.SandboxConfig, loader secondary.InterpreterLoader, logger primary.Logger) *SandboxService {
	timeout := cfg.ExecutionTimeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	js := NewJavaScriptEngine(timeout)
	return newSandboxService(loader, logger,
		js,
		NewTypeScriptEngine(js),
		NewPythonEngine(loader, timeout),
	)
}

func newSandboxService(loader secondary.InterpreterLoader, logger primary.Logger, engines ...Engine) *SandboxService {
	byLang := make(map[domain.Language]Engine, len(engines))
	for _, e := range engines {
		byLang[e.Language()] = e
	}
	return &SandboxService{
		engines: byLang,
		loader:  loader,
		logger:  logger,
	}
}

// ExecuteCode runs code with the engine registered for language.
func (s *SandboxService) ExecuteCode(ctx context.Context, code string, language domain.Language) (result domain.ExecutionResult) {
	engine, ok := s.engines[language]
	if !ok {
		s.logger.Warn("Unsupported language requested", "language", language)
		return domain.ExecutionResult{
			Output: "",
			Error:  fmt.Sprintf(unsupportedMessage, language),
		}
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Engine panicked", "language", language, "panic", r)
			result = domain.ExecutionResult{
				Error:           fmt.Sprintf(internalErrorMessage, r),
				ExecutionTimeMs: domain.Millis(time.Since(start)),
			}
		}
	}()

	result = engine.Execute(ctx, code)
	s.logger.Debug("Executed code",
		"language", language,
		"durationMs", result.ExecutionTimeMs,
		"failed", result.Failed())
	return result
}

// InterpreterState reports the delegated interpreter's loading progress.
func (s *SandboxService) InterpreterState() domain.InterpreterState {
	if s.loader == nil {
		return domain.InterpreterState{Status: domain.InterpreterIdle}
	}
	return s.loader.State()
}

// PreloadInterpreter starts the delegated interpreter without running code.
func (s *SandboxService) PreloadInterpreter(ctx context.Context) error {
	if s.loader == nil {
		return fmt.Errorf("no interpreter loader configured")
	}
	if _, err := s.loader.Load(ctx); err != nil {
		s.logger.Error("Failed to load interpreter", "error", err)
		return err
	}
	return nil
}

func timeoutResult(output string, timeout time.Duration) domain.ExecutionResult {
	return domain.ExecutionResult{
		Output:          output,
		Error:           fmt.Sprintf(timeoutMessage, timeout),
		ExecutionTimeMs: domain.Millis(timeout),
	}
}
