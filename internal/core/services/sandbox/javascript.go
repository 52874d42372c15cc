package sandbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dop251/goja"

	"gitlab.com/learnhub.net/internal/domain"
)

var errInterrupted = errors.New("execution interrupted")

// JavaScriptEngine evaluates code in a fresh goja runtime per execution.
type JavaScriptEngine struct {
	timeout time.Duration
}

// NewJavaScriptEngine creates an engine that gives up after timeout.
func NewJavaScriptEngine(timeout time.Duration) *JavaScriptEngine {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &JavaScriptEngine{timeout: timeout}
}

// Language reports javascript.
func (e *JavaScriptEngine) Language() domain.Language {
	return domain.LanguageJavaScript
}

// Execute runs code as the body of a new function with no arguments.
//
// The runtime is interrupted when the timeout fires or ctx ends, so a busy
// loop stops at its next instruction.
func (e *JavaScriptEngine) Execute(ctx context.Context, code string) domain.ExecutionResult {
	start := time.Now()
	capture := BeginCapture()
	defer capture.Restore()

	vm := goja.New()
	if err := installConsole(vm, capture); err != nil {
		return domain.ExecutionResult{
			Error:           fmt.Sprintf(internalErrorMessage, err),
			ExecutionTimeMs: domain.Millis(time.Since(start)),
		}
	}

	done := make(chan error, 1)
	go func() {
		done <- invokeAsFunction(vm, code)
	}()

	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		capture.Restore()
		result := domain.ExecutionResult{
			Output:          capture.Output(),
			ExecutionTimeMs: domain.Millis(time.Since(start)),
		}
		if err != nil {
			result.Error = errorMessage(err)
		}
		return result

	case <-timer.C:
		vm.Interrupt(errInterrupted)
		capture.Restore()
		return timeoutResult(capture.Output(), e.timeout)

	case <-ctx.Done():
		vm.Interrupt(errInterrupted)
		capture.Restore()
		return domain.ExecutionResult{
			Output:          capture.Output(),
			Error:           fmt.Sprintf(cancelledMessage, ctx.Err()),
			ExecutionTimeMs: domain.Millis(time.Since(start)),
		}
	}
}

// invokeAsFunction builds a function from code with the runtime's own
// Function constructor and calls it, so the code sees no caller scope and
// may use a top-level return.
func invokeAsFunction(vm *goja.Runtime, code string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	newFunction, ok := goja.AssertFunction(vm.Get("Function"))
	if !ok {
		return errors.New("Function constructor is not callable")
	}
	fn, err := newFunction(goja.Undefined(), vm.ToValue(code))
	if err != nil {
		return err
	}
	call, ok := goja.AssertFunction(fn)
	if !ok {
		return errors.New("compiled code is not callable")
	}
	_, err = call(goja.Undefined())
	return err
}

// errorMessage mirrors `err instanceof Error ? err.message : String(err)`.
func errorMessage(err error) string {
	var ex *goja.Exception
	if errors.As(err, &ex) {
		thrown := ex.Value()
		if thrown == nil {
			return ex.Error()
		}
		if obj, ok := thrown.(*goja.Object); ok && obj.ClassName() == "Error" {
			if msg := obj.Get("message"); msg != nil && !goja.IsUndefined(msg) {
				return msg.String()
			}
		}
		return safeString(thrown)
	}

	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return errInterrupted.Error()
	}

	return err.Error()
}
