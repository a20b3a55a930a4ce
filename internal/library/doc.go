// Package library persists documents, chapters, characters, and segments in
// SQLite and enforces the status state machines the pipeline relies on.
//
// Writes are short-lived: each store method opens, commits, and releases its
// own transaction so no database lock is ever held across an external
// provider call. Replace operations (chapters, characters, segments) are
// delete-then-insert inside one transaction, which is what makes re-running
// any pipeline stage idempotent.
package library
