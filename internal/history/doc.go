// Package history keeps a SQLite ledger of slideshow assembly runs.
//
// Every `montage assemble` invocation records a Run when it starts and marks
// it completed, failed, or rejected when it ends, so `montage history` can
// show where past videos were written. The ledger is optional
// (history.enabled) and never influences how a slideshow is built.
//
// Schema changes bump schemaVersion in schema.go; an old database must be
// deleted to adopt the new schema.
package history
