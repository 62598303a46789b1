// Package mcp models the MCP server sections of assistant configuration
// files and the operations mcptoggle performs on them.
//
// # Records and Sets
//
// A [Server] is one launch descriptor (command, args, env, plus whatever
// else the tool stores). Fields the type does not model survive a load and
// save untouched. A [ServerSet] maps names to records and keeps the order in
// which they appear in the file.
//
// # Snapshots
//
// A [Snapshot] is the enabled/disabled split for one tool at one scope:
//
//	snap.Disable("github")   // enabled -> disabled
//	snap.Enable("github")    // disabled -> enabled
//	snap.Toggle("postgres")  // whichever applies
//
// Preconditions that do not hold return an error marked with
// errors.ErrInvalidOperation; the snapshot is left unchanged.
//
// # Project Scope
//
// [Merge] combines a user-level snapshot with a project-level one into a
// [ScopedConfig] whose [Inheritance] says where each enabled server came
// from (inherited, overridden or addition). [DisableInProject] and
// [EnableInProject] compute the project snapshot to write back for a
// change made against the merged view.
//
// A project may disable a server by name only. When no level defines it,
// the merged view carries a [Placeholder] record; such a server is listed
// as disabled but cannot be enabled until it is defined somewhere.
package mcp
