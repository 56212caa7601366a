// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video stream properties
//   - Format: container-level metadata (duration, size, bitrate)
//   - Prober: the interface the slideshow assembler probes inputs through
//
// Primary entry points:
//   - Inspect: executes ffprobe and returns parsed Result
//   - CLI: a Prober backed by an ffprobe binary
//
// Helper methods on Result provide stream counts, duration parsing, canvas
// dimensions, and bitrate extraction.
package ffprobe
