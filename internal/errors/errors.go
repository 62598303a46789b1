package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Exit codes for CLI applications.
const (
	// ExitSuccess indicates the command completed successfully, including
	// when the user cancels an interactive prompt.
	ExitSuccess = 0

	// ExitUser indicates any handled failure.
	ExitUser = 1
)

// Sentinel errors for common failure conditions.
var (
	// ErrNotFound indicates a configuration file, profile, or backup is absent.
	ErrNotFound = crdb.New("not found")

	// ErrParse indicates a persisted document is not valid JSON/TOML or not
	// the expected shape.
	ErrParse = crdb.New("parse error")

	// ErrInvalidOperation indicates an enable/disable/toggle precondition was violated.
	ErrInvalidOperation = crdb.New("invalid operation")

	// ErrSave indicates a write failed and the pre-save backup was restored.
	ErrSave = crdb.New("save failed")

	// ErrUnsupportedScope indicates project scope was requested on a tool
	// that only has a user-level configuration.
	ErrUnsupportedScope = crdb.New("unsupported scope")

	// ErrPathNotFound indicates a project path does not exist.
	ErrPathNotFound = crdb.New("path not found")

	// ErrProfileNotFound indicates the named profile does not exist.
	ErrProfileNotFound = crdb.New("profile not found")

	// ErrInvalidName indicates a profile or server name is malformed.
	ErrInvalidName = crdb.New("invalid name")

	// ErrInvalidState indicates an internal invariant did not hold.
	ErrInvalidState = crdb.New("invalid state")

	// ErrUnknownTool indicates the tool id is not recognized.
	ErrUnknownTool = crdb.New("unknown tool")

	// ErrInvalidConfig indicates configuration validation failed.
	ErrInvalidConfig = crdb.New("invalid configuration")
)

// Thin aliases over github.com/cockroachdb/errors so callers import a
// single errors package.
var (
	New           = crdb.New
	Newf          = crdb.Newf
	Errorf        = crdb.Errorf
	Wrap          = crdb.Wrap
	Wrapf         = crdb.Wrapf
	WithStack     = crdb.WithStack
	WithHint      = crdb.WithHint
	WithHintf     = crdb.WithHintf
	GetAllHints   = crdb.GetAllHints
	Mark          = crdb.Mark
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	CombineErrors = crdb.CombineErrors
)

// Markf builds a new error from format and marks it with sentinel, so that
// errors.Is(err, sentinel) holds while the message carries the details.
func Markf(sentinel error, format string, args ...any) error {
	return crdb.Mark(crdb.Newf(format, args...), sentinel)
}

// WrapMark wraps err with msg and marks the result with sentinel.
func WrapMark(err, sentinel error, msg string) error {
	if err == nil {
		return nil
	}
	return crdb.Mark(crdb.Wrap(err, msg), sentinel)
}

// ExitError wraps an error with an exit code and optional suggestion for CLI applications.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
// If err is nil, the returned ExitError will have a nil Err field.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewConfigError creates an ExitError with ExitUser code and a standard suggestion.
func NewConfigError(err error) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: "Run: mcptoggle config list",
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// Suggest returns the suggestion attached to err, looking first for an
// ExitError and then for cockroachdb hints.
func Suggest(err error) string {
	var exitErr *ExitError
	if crdb.As(err, &exitErr) && exitErr.Suggestion != "" {
		return exitErr.Suggestion
	}
	if hints := crdb.GetAllHints(err); len(hints) > 0 {
		return hints[0]
	}
	return ""
}
