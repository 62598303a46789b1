// Package backup provides configuration backup and restore for mcptoggle.
//
// Every adapter save takes a backup of the live file(s) first. A backup is a
// directory holding copies of the files plus a manifest.json with their
// SHA256 hashes, permissions and original paths:
//
//	<backup_dir>/
//	└── {tool}/
//	    └── {ID}/
//	        ├── manifest.json
//	        └── {copied files...}
//
// IDs are UTC timestamps with millisecond resolution (20260123T100712.042).
// Directories are created with an exclusive mkdir; a second backup within
// the same millisecond gets the next "-N" suffix, so backups never share a
// directory.
//
// # Restoring
//
// [Manager.Restore] verifies every hash before writing anything back.
// Files that did not exist when the backup was taken (for example Claude's
// separate disabled-servers file) are removed, so the tool's files return
// to exactly the backed-up state.
//
// # Retention
//
// Backups are never removed implicitly. [Manager.Prune] deletes all but the
// newest N and is only called by `mcptoggle backup prune`.
//
// # Error Handling
//
//   - [ErrNoBackupsFound]: no backups exist for the tool (matches errors.ErrNotFound)
//   - [ErrNothingToBackUp]: none of the files exist (matches errors.ErrNotFound)
//   - [ErrBackupCorrupted]: a copied file does not match its recorded hash
package backup
