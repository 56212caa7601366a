// Package main hosts the montage CLI entrypoint and command graph.
//
// The Cobra-based command tree turns an ordered list of image paths plus a
// background track into a slideshow video (`montage assemble`), and exposes
// the run ledger, readiness checks, and configuration scaffolding. It
// centralizes configuration resolution and structured logging setup so
// subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
