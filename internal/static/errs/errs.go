package errs

import "errors"

var (
	InternalError   = errors.New("internal error")
	InvalidRequest  = errors.New("invalid request")
	NotFound        = errors.New("not found")
	InvalidToken    = errors.New("invalid token")
	MissingToken    = errors.New("authorization header missing")
	UnknownLanguage = errors.New("unsupported language")
)

var (
	InterpreterUnavailable = errors.New("interpreter unavailable")
	InterpreterExited      = errors.New("interpreter process exited")
	InterpreterProtocol    = errors.New("interpreter protocol error")
)
