// Package services defines shared utilities consumed by the assembly pipeline
// and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs and stage names for logging.
//   - Structured error markers plus the Wrap helper that let callers tell user
//     mistakes (validation, configuration) apart from tool failures.
//
// Use these helpers when wiring new pipeline steps so error handling and
// observability stay uniform.
package services
