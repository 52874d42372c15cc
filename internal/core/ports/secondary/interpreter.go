package secondary

import (
	"context"

	"gitlab.com/learnhub.net/internal/domain"
)

// Interpreter is a running instance of the delegated interpreter.
type Interpreter interface {
	// Run executes code in the interpreter's shared namespace with stdout
	// redirected to an in-interpreter buffer for the duration of the call.
	// A non-nil error means the interpreter itself failed or ctx ended;
	// errors raised by the code are reported in the outcome.
	Run(ctx context.Context, code string) (domain.InterpreterOutcome, error)
}

// InterpreterLoader hands out the process-wide interpreter singleton.
type InterpreterLoader interface {
	// Load returns the interpreter, starting it if needed. Concurrent
	// callers wait for the same in-flight initialization.
	Load(ctx context.Context) (Interpreter, error)

	// State reports loading progress without triggering a load.
	State() domain.InterpreterState
}
