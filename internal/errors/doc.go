// Package errors provides error handling conventions for the mcptoggle CLI.
//
// It re-exports the constructors and inspectors of
// github.com/cockroachdb/errors, defines the sentinel errors that make up the
// tool's error taxonomy, and an ExitError type for CLI exit code handling.
//
// # Sentinel Errors
//
// Domain failures are marked with a sentinel so callers can test for the
// condition with [Is] while the message keeps its context:
//
//	err := errors.Markf(errors.ErrNotFound, "config file not found: %s", path)
//	if errors.Is(err, errors.ErrNotFound) {
//	    // handle not found case
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): success, or an interactive prompt cancelled by the user
//   - ExitUser (1): any handled failure
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion. Hints attached with [WithHint] are also surfaced by [Suggest].
package errors
