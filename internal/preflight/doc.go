// Package preflight provides readiness checks for the binaries and paths
// montage depends on.
//
// These checks run in two contexts:
//   - `montage assemble` calls RunAll before encoding so a missing state
//     directory fails fast instead of after ffmpeg has run.
//   - `montage status` displays every check, including binaries, encoders,
//     the default audio track, and the history ledger.
package preflight
