package command

import "errors"

// Error kinds. Every failure is also written to the presence log.
var (
	ErrPolicyDenied    = errors.New("policy denied")
	ErrTargetNotFound  = errors.New("target not found")
	ErrInvalidRange    = errors.New("invalid range")
	ErrMissingArgument = errors.New("missing argument")
	ErrNotEntered      = errors.New("not entered")
	ErrUnknownCommand  = errors.New("unknown command")
)

// UserError is a failure with the text shown to the user.
type UserError struct {
	Kind error
	Msg  string
}

func (e *UserError) Error() string { return e.Msg }

func (e *UserError) Unwrap() error { return e.Kind }
