// Package validator looks for MCP server records an assistant would fail to
// start: a remote server with no URL, a local one with no command, an
// unknown transport. It also notes secrets written inline in env values.
//
// Findings are [Issue] values keyed by server name and collected in a
// [Result]. Problems on enabled servers are errors; the same problems on
// disabled servers are warnings, since they only matter once the server is
// turned back on.
//
//	result := validator.ValidateSnapshot(snap)
//	_ = validator.NewReporter(os.Stdout, validator.FormatText).Report(result)
package validator
