// Package logs reads montage.log for the `montage logs` command.
//
// Tail returns the last N lines (negative offset) or everything after a byte
// offset, optionally waiting for new lines in follow mode. A Match function
// narrows output to one run; MatchRun builds one from a history run ID.
package logs
