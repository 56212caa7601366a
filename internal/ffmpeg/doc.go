// Package ffmpeg runs the ffmpeg binary and turns its machine-readable
// `-progress` stream into typed Progress snapshots.
//
// Execution goes through the Executor interface so tests can replay canned
// output without spawning a process. Failures are tagged with
// services.ErrExternalTool and carry the last lines ffmpeg printed.
package ffmpeg
