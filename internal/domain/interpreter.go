package domain

// InterpreterStatus is the lifecycle stage of the delegated interpreter.
type InterpreterStatus string

const (
	InterpreterIdle    InterpreterStatus = "idle"
	InterpreterLoading InterpreterStatus = "loading"
	InterpreterReady   InterpreterStatus = "ready"
	InterpreterFailed  InterpreterStatus = "failed"
)

// InterpreterState is a snapshot of the loader, used by progress indicators.
type InterpreterState struct {
	Status   InterpreterStatus `json:"status"`
	Progress int               `json:"progress"`
	Version  string            `json:"version,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// InterpreterOutcome is what the delegated interpreter reports for one run.
// Value is set when the code ended in an expression whose value was not None.
type InterpreterOutcome struct {
	Output string
	Value  *string
	Error  string
}
