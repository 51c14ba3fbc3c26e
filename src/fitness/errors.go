package fitness

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrTemplateNotFound  = errors.New("template not found")
	ErrInfeasibleTargets = errors.New("infeasible targets")
	ErrUpstream          = errors.New("upstream failure")
)

// Error carries a kind, the operation that failed and a message or cause.
type Error struct {
	Kind error
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Err != nil {
		if msg != "" {
			msg += ": " + e.Err.Error()
		} else {
			msg = e.Err.Error()
		}
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, msg)
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

// InvalidInput reports a caller error.
func InvalidInput(op, format string, args ...any) error {
	return &Error{Kind: ErrInvalidInput, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Upstream wraps a collaborator failure (model, store, search).
func Upstream(op string, err error) error {
	return &Error{Kind: ErrUpstream, Op: op, Err: err}
}

// KindOf returns the name of the error kind, or "internal" for foreign errors.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "InvalidInput"
	case errors.Is(err, ErrTemplateNotFound):
		return "TemplateNotFound"
	case errors.Is(err, ErrInfeasibleTargets):
		return "InfeasibleTargets"
	case errors.Is(err, ErrUpstream):
		return "UpstreamFailure"
	default:
		return "internal"
	}
}
