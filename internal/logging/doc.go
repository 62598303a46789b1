// Package logging configures the slog logger shared by every command.
//
// Diagnostics go to stderr so that command output on stdout stays clean
// for pipes. The default text [Handler] writes one short line per record
// and colors it only on a terminal. --log-format=json swaps in slog's JSON
// handler, and --log-file appends a JSON copy of every record to a file.
// String, []string and map attributes are masked with the redact package
// before the text handler prints them.
//
// The default level is Warn. Each -v lowers it one step (Info, Debug,
// [LevelTrace]); MCPTOGGLE_DEBUG does the same when no flag is given.
//
// Commands store the logger with [NewContext]; library code reads it back
// with [FromContext]. Tests use [ForTest].
package logging
