// Package scope decides whether a command works on a tool's user-level
// configuration or on the project-level view for a directory.
//
// The requested mode is one of "user", "project" or "auto". Auto mode walks
// from the working directory up to the filesystem root and picks the first
// directory the tool's user configuration has a project entry for.
package scope
